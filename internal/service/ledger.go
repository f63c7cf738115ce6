package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
)

var (
	ErrZeroPoints           = repository.ErrZeroPoints
	ErrNegativeEarnedPoints = errors.New("earned points cannot be negative")
	ErrInvalidRankingMonth  = errors.New("month must be between 1 and 12")
)

const (
	defaultRankingPageSize = 20
	maxRankingPageSize     = 100
)

type LedgerRepository interface {
	ApplyPointDelta(ctx context.Context, userID uint, points int, description string) (domain.PointTransaction, domain.User, error)
	ApplyTournamentResult(ctx context.Context, result domain.TournamentResult) (domain.TournamentResult, error)
	ListTransactionsByUser(ctx context.Context, userID uint) ([]domain.PointTransaction, error)
	RecomputeUserBalance(ctx context.Context, userID uint) (pointDrift, rankingDrift int, err error)
	MonthlyRanking(ctx context.Context, start, end time.Time, offset, limit int) ([]domain.RankingEntry, int64, error)
	UserRankingPosition(ctx context.Context, userID uint) (int64, error)
}

type LedgerUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type LedgerService struct {
	repo  LedgerRepository
	users LedgerUserRepository
}

func NewLedgerService(repo LedgerRepository, users LedgerUserRepository) *LedgerService {
	return &LedgerService{
		repo:  repo,
		users: users,
	}
}

// AdjustPoints applies a free-form signed delta to the user's balance and
// appends the matching ledger entry. Zero deltas are rejected. Admin
// adjustments have no balance floor; debits that must not overdraw run
// through the redemption path instead.
func (s *LedgerService) AdjustPoints(ctx context.Context, userID uint, points int, description string) (domain.PointTransaction, domain.User, error) {
	txn, user, err := s.repo.ApplyPointDelta(ctx, userID, points, description)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return domain.PointTransaction{}, domain.User{}, ErrUserNotFound
		case errors.Is(err, repository.ErrZeroPoints):
			return domain.PointTransaction{}, domain.User{}, ErrZeroPoints
		}

		return domain.PointTransaction{}, domain.User{}, fmt.Errorf("s.repo.ApplyPointDelta -> %w", err)
	}

	return txn, user, nil
}

// AddTournamentResult records one participant's result and credits both
// counters atomically.
func (s *LedgerService) AddTournamentResult(ctx context.Context, result domain.TournamentResult) (domain.TournamentResult, error) {
	if result.PointEarned < 0 || result.RankingPointEarned < 0 {
		return domain.TournamentResult{}, ErrNegativeEarnedPoints
	}

	user, err := s.users.FindByID(ctx, result.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.TournamentResult{}, ErrUserNotFound
		}

		return domain.TournamentResult{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	result.Username = user.Username

	created, err := s.repo.ApplyTournamentResult(ctx, result)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.TournamentResult{}, ErrUserNotFound
		}

		return domain.TournamentResult{}, fmt.Errorf("s.repo.ApplyTournamentResult -> %w", err)
	}

	return created, nil
}

// BulkTournamentResults applies each entry in its own atomic scope. A failed
// entry is recorded in the report and never aborts the rest of the batch, so
// the outcome is "all succeeded" or "some failed", never "all rolled back".
func (s *LedgerService) BulkTournamentResults(ctx context.Context, tournamentName string, entries []domain.BulkResultEntry) (domain.BulkReport, error) {
	report := domain.BulkReport{
		BatchID:        uuid.NewString(),
		TournamentName: tournamentName,
		Succeeded:      make([]domain.TournamentResult, 0, len(entries)),
		Errors:         []domain.BulkEntryError{},
	}

	for i, entry := range entries {
		created, err := s.AddTournamentResult(ctx, domain.TournamentResult{
			UserID:             entry.UserID,
			TournamentName:     tournamentName,
			Position:           entry.Position,
			PointEarned:        entry.PointEarned,
			RankingPointEarned: entry.RankingPointEarned,
		})
		if err != nil {
			report.Errors = append(report.Errors, domain.BulkEntryError{
				Index:  i,
				UserID: entry.UserID,
				Reason: bulkEntryReason(err),
			})

			continue
		}

		report.Succeeded = append(report.Succeeded, created)
	}

	return report, nil
}

// bulkEntryReason keeps report messages stable for the known failure modes
// instead of leaking wrapped call chains.
func bulkEntryReason(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return ErrUserNotFound.Error()
	case errors.Is(err, ErrNegativeEarnedPoints):
		return ErrNegativeEarnedPoints.Error()
	default:
		return err.Error()
	}
}

// GetHistory lists the user's ledger entries, newest first.
func (s *LedgerService) GetHistory(ctx context.Context, userID uint) ([]domain.PointTransaction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	txns, err := s.repo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTransactionsByUser -> %w", err)
	}

	for i := range txns {
		txns[i].Username = user.Username
	}

	return txns, nil
}

// Reconcile recomputes one user's counters from the ledger and tournament
// logs and reports how far the cached values had drifted.
func (s *LedgerService) Reconcile(ctx context.Context, userID uint) (pointDrift, rankingDrift int, err error) {
	pointDrift, rankingDrift, err = s.repo.RecomputeUserBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, 0, ErrUserNotFound
		}

		return 0, 0, fmt.Errorf("s.repo.RecomputeUserBalance -> %w", err)
	}

	return pointDrift, rankingDrift, nil
}

// MonthlyRanking aggregates ranking points earned inside the calendar month
// [1st, 1st of next month). December's window rolls into January of the next
// year.
func (s *LedgerService) MonthlyRanking(ctx context.Context, year, month, page, pageSize int) (domain.RankingPage, error) {
	if month < 1 || month > 12 {
		return domain.RankingPage{}, ErrInvalidRankingMonth
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultRankingPageSize
	}
	if pageSize > maxRankingPageSize {
		pageSize = maxRankingPageSize
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	offset := (page - 1) * pageSize

	entries, total, err := s.repo.MonthlyRanking(ctx, start, end, offset, pageSize)
	if err != nil {
		return domain.RankingPage{}, fmt.Errorf("s.repo.MonthlyRanking -> %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return domain.RankingPage{
		Entries:    entries,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// UserRanking returns the caller's all-time position ordered by cumulative
// ranking points.
func (s *LedgerService) UserRanking(ctx context.Context, userID uint) (int64, domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, domain.User{}, ErrUserNotFound
		}

		return 0, domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	position, err := s.repo.UserRankingPosition(ctx, userID)
	if err != nil {
		return 0, domain.User{}, fmt.Errorf("s.repo.UserRankingPosition -> %w", err)
	}

	return position, user, nil
}
