package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository/dao"
)

var (
	ErrZeroPoints         = dao.ErrZeroPoints
	ErrInsufficientPoints = dao.ErrInsufficientPoints
)

type LedgerDAO interface {
	ApplyPointDelta(ctx context.Context, userID uint, points int, description string) (dao.PointTransaction, dao.User, error)
	ApplyTournamentResult(ctx context.Context, result dao.TournamentResult) (dao.TournamentResult, error)
	ListTransactionsByUser(ctx context.Context, userID uint) ([]dao.PointTransaction, error)
	RecomputeUserBalance(ctx context.Context, userID uint) (pointDrift, rankingDrift int, err error)
	MonthlyRanking(ctx context.Context, start, end time.Time, offset, limit int) ([]dao.RankingRow, int64, error)
	UserRankingPosition(ctx context.Context, userID uint) (int64, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

// ApplyPointDelta mutates the balance and appends the ledger row atomically.
// Returns the new entry plus the user's balance after the mutation.
func (r *LedgerRepository) ApplyPointDelta(ctx context.Context, userID uint, points int, description string) (domain.PointTransaction, domain.User, error) {
	txn, user, err := r.dao.ApplyPointDelta(ctx, userID, points, description)
	if err != nil {
		return domain.PointTransaction{}, domain.User{}, fmt.Errorf("r.dao.ApplyPointDelta -> %w", err)
	}

	result := r.txnDaoToDomain(txn)
	result.Username = user.Username

	return result, userDaoToDomain(user), nil
}

func (r *LedgerRepository) ApplyTournamentResult(ctx context.Context, result domain.TournamentResult) (domain.TournamentResult, error) {
	created, err := r.dao.ApplyTournamentResult(ctx, dao.TournamentResult{
		UserID:             result.UserID,
		TournamentName:     result.TournamentName,
		Position:           result.Position,
		PointEarned:        result.PointEarned,
		RankingPointEarned: result.RankingPointEarned,
	})
	if err != nil {
		return domain.TournamentResult{}, fmt.Errorf("r.dao.ApplyTournamentResult -> %w", err)
	}

	return domain.TournamentResult{
		ID:                 created.ID,
		UserID:             created.UserID,
		Username:           result.Username,
		TournamentName:     created.TournamentName,
		Position:           created.Position,
		PointEarned:        created.PointEarned,
		RankingPointEarned: created.RankingPointEarned,
		CreatedAt:          created.CreatedAt,
	}, nil
}

func (r *LedgerRepository) ListTransactionsByUser(ctx context.Context, userID uint) ([]domain.PointTransaction, error) {
	txns, err := r.dao.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTransactionsByUser -> %w", err)
	}

	result := make([]domain.PointTransaction, len(txns))
	for i, txn := range txns {
		result[i] = r.txnDaoToDomain(txn)
	}

	return result, nil
}

func (r *LedgerRepository) RecomputeUserBalance(ctx context.Context, userID uint) (int, int, error) {
	pointDrift, rankingDrift, err := r.dao.RecomputeUserBalance(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.RecomputeUserBalance -> %w", err)
	}

	return pointDrift, rankingDrift, nil
}

func (r *LedgerRepository) MonthlyRanking(ctx context.Context, start, end time.Time, offset, limit int) ([]domain.RankingEntry, int64, error) {
	rows, total, err := r.dao.MonthlyRanking(ctx, start, end, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.MonthlyRanking -> %w", err)
	}

	entries := make([]domain.RankingEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.RankingEntry{
			UserID:       row.UserID,
			Username:     row.Username,
			Nickname:     row.Nickname,
			RankingPoint: row.RankingPoint,
		}
	}

	return entries, total, nil
}

func (r *LedgerRepository) UserRankingPosition(ctx context.Context, userID uint) (int64, error) {
	position, err := r.dao.UserRankingPosition(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UserRankingPosition -> %w", err)
	}

	return position, nil
}

func (r *LedgerRepository) txnDaoToDomain(t dao.PointTransaction) domain.PointTransaction {
	return domain.PointTransaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Points:      t.Points,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
