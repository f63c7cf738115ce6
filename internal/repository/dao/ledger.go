package dao

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

var (
	ErrZeroPoints         = errors.New("points cannot be zero")
	ErrInsufficientPoints = errors.New("insufficient points")
)

const (
	txnIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	txnIDLength   = 7
)

// PointTransaction is append-only: rows are never updated or deleted. It is
// the audit trail every balance on the users table can be recomputed from.
type PointTransaction struct {
	ID          string `gorm:"primaryKey;size:7"`
	UserID      uint   `gorm:"index;not null"`
	Points      int    `gorm:"not null"`
	Description string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TournamentResult struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             uint   `gorm:"index;not null"`
	TournamentName     string `gorm:"size:255;not null"`
	Position           string `gorm:"size:255"`
	PointEarned        int    `gorm:"not null;default:0"`
	RankingPointEarned int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

func newTransactionID() (string, error) {
	id := make([]byte, txnIDLength)
	max := big.NewInt(int64(len(txnIDAlphabet)))
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		id[i] = txnIDAlphabet[n.Int64()]
	}

	return string(id), nil
}

// insertPointTransaction appends a ledger row inside tx, regenerating the
// short id on collision.
func insertPointTransaction(tx *gorm.DB, userID uint, points int, description string) (PointTransaction, error) {
	if points == 0 {
		return PointTransaction{}, ErrZeroPoints
	}

	for {
		id, err := newTransactionID()
		if err != nil {
			return PointTransaction{}, err
		}

		var count int64
		if err = tx.Model(&PointTransaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return PointTransaction{}, err
		}
		if count > 0 {
			continue
		}

		txn := PointTransaction{
			ID:          id,
			UserID:      userID,
			Points:      points,
			Description: description,
		}
		if err = tx.Create(&txn).Error; err != nil {
			if isUniqueViolation(err) {
				continue
			}

			return PointTransaction{}, err
		}

		return txn, nil
	}
}

// ApplyPointDelta adds points (signed, non-zero) to the user's balance and
// appends the matching ledger entry, in one transaction. The user row is
// locked before the read-modify-write. Admin adjustments are free-form, so no
// floor is enforced here; debits that must not undershoot check affordability
// in their own locked scope before calling this.
func (d *LedgerDAO) ApplyPointDelta(ctx context.Context, userID uint, points int, description string) (PointTransaction, User, error) {
	if points == 0 {
		return PointTransaction{}, User{}, ErrZeroPoints
	}

	var (
		txn  PointTransaction
		user User
	)
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		user.Point += points
		if err := tx.Model(&User{}).Where("id = ?", user.ID).Update("point", user.Point).Error; err != nil {
			return err
		}

		var err error
		txn, err = insertPointTransaction(tx, user.ID, points, description)

		return err
	})
	if err != nil {
		return PointTransaction{}, User{}, err
	}

	return txn, user, nil
}

// ApplyTournamentResult records the result row and bumps both of the user's
// counters in the same transaction: point by PointEarned (with a ledger
// entry), ranking_point by RankingPointEarned. Both commit or neither does.
func (d *LedgerDAO) ApplyTournamentResult(ctx context.Context, result TournamentResult) (TournamentResult, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := forUpdate(tx).First(&user, result.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		updates := map[string]interface{}{
			"point":         user.Point + result.PointEarned,
			"ranking_point": user.RankingPoint + result.RankingPointEarned,
		}
		if err := tx.Model(&User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Create(&result).Error; err != nil {
			return err
		}

		if result.PointEarned != 0 {
			description := fmt.Sprintf("Tournament: %v (%v)", result.TournamentName, result.Position)
			if _, err := insertPointTransaction(tx, result.UserID, result.PointEarned, description); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return TournamentResult{}, err
	}

	return result, nil
}

func (d *LedgerDAO) ListTransactionsByUser(ctx context.Context, userID uint) ([]PointTransaction, error) {
	var txns []PointTransaction

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txns)
	if result.Error != nil {
		return nil, result.Error
	}

	return txns, nil
}

// RecomputeUserBalance rebuilds the user's cached counters from the
// point_transactions and tournament_results logs. Maintenance operation; the
// hot path never calls it. Returns the drift that was corrected.
func (d *LedgerDAO) RecomputeUserBalance(ctx context.Context, userID uint) (pointDrift, rankingDrift int, err error) {
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		var pointSum int64
		if err := tx.Model(&PointTransaction{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&pointSum).Error; err != nil {
			return err
		}

		var rankingSum int64
		if err := tx.Model(&TournamentResult{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(ranking_point_earned), 0)").
			Scan(&rankingSum).Error; err != nil {
			return err
		}

		pointDrift = user.Point - int(pointSum)
		rankingDrift = user.RankingPoint - int(rankingSum)
		if pointDrift == 0 && rankingDrift == 0 {
			return nil
		}

		updates := map[string]interface{}{
			"point":         int(pointSum),
			"ranking_point": int(rankingSum),
		}

		return tx.Model(&User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		return 0, 0, err
	}

	return pointDrift, rankingDrift, nil
}

// RankingRow is one aggregated leaderboard row.
type RankingRow struct {
	UserID       uint
	Username     string
	Nickname     string
	RankingPoint int
}

// MonthlyRanking sums ranking_point_earned per user over [start, end),
// descending, with manual offset/limit. Read-only; runs at the store's default
// isolation, so a result written mid-query may or may not appear.
func (d *LedgerDAO) MonthlyRanking(ctx context.Context, start, end time.Time, offset, limit int) ([]RankingRow, int64, error) {
	var total int64
	err := d.db.WithContext(ctx).Model(&TournamentResult{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Distinct("user_id").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []RankingRow
	err = d.db.WithContext(ctx).Model(&TournamentResult{}).
		Select("tournament_results.user_id AS user_id, users.username AS username, users.nickname AS nickname, COALESCE(SUM(tournament_results.ranking_point_earned), 0) AS ranking_point").
		Joins("JOIN users ON users.id = tournament_results.user_id").
		Where("tournament_results.created_at >= ? AND tournament_results.created_at < ?", start, end).
		Group("tournament_results.user_id, users.username, users.nickname").
		Order("ranking_point DESC, user_id").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// UserRankingPosition returns the user's 1-based all-time position by cached
// ranking_point (ties share the better position).
func (d *LedgerDAO) UserRankingPosition(ctx context.Context, userID uint) (int64, error) {
	var user User
	if err := d.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}

		return 0, err
	}

	var ahead int64
	err := d.db.WithContext(ctx).Model(&User{}).
		Where("ranking_point > ?", user.RankingPoint).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}

	return ahead + 1, nil
}
