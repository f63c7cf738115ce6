package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRewardNotFound       = errors.New("reward not found")
	ErrRedemptionNotFound   = errors.New("redemption not found")
	ErrRedemptionNotPending = errors.New("only pending redemptions can be processed")
	ErrDuplicateRedemption  = errors.New("a redemption with this status already exists for this user and reward")
	ErrRewardOutOfStock     = errors.New("reward is out of stock")
)

type Reward struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string
	Cost        int `gorm:"not null;default:0"`
	Stock       int `gorm:"not null;default:0"`
	ImageURL    string
}

// RewardRedemption keeps the source schema's composite uniqueness on
// (user, reward, status): at most one pending request per pair, while a new
// request is allowed once the prior one reached a terminal status.
type RewardRedemption struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_redemption_user_reward_status"`
	RewardID uint   `gorm:"not null;uniqueIndex:idx_redemption_user_reward_status"`
	Status   string `gorm:"size:50;not null;default:pending;uniqueIndex:idx_redemption_user_reward_status"`

	RedeemedAt time.Time `gorm:"autoCreateTime;index"`
}

type RewardDAO struct {
	db *gorm.DB
}

func NewRewardDAO(db *gorm.DB) *RewardDAO {
	return &RewardDAO{
		db: db,
	}
}

func (d *RewardDAO) InsertReward(ctx context.Context, reward Reward) (Reward, error) {
	result := d.db.WithContext(ctx).Create(&reward)
	if result.Error != nil {
		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) FindRewardByID(ctx context.Context, id uint) (Reward, error) {
	var reward Reward

	result := d.db.WithContext(ctx).First(&reward, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reward{}, ErrRewardNotFound
		}

		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) ListRewards(ctx context.Context) ([]Reward, error) {
	var rewards []Reward

	result := d.db.WithContext(ctx).Order("id").Find(&rewards)
	if result.Error != nil {
		return nil, result.Error
	}

	return rewards, nil
}

// CreateRedemption records a pending redemption request. Affordability and
// stock are deliberately not checked here; they are validated at confirmation
// time, under lock.
func (d *RewardDAO) CreateRedemption(ctx context.Context, userID, rewardID uint) (RewardRedemption, error) {
	var redemption RewardRedemption

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Reward{}).Where("id = ?", rewardID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRewardNotFound
		}

		redemption = RewardRedemption{
			UserID:   userID,
			RewardID: rewardID,
			Status:   "pending",
		}
		if err := tx.Create(&redemption).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRedemption
			}

			return err
		}

		return nil
	})
	if err != nil {
		return RewardRedemption{}, err
	}

	return redemption, nil
}

func (d *RewardDAO) FindRedemptionByID(ctx context.Context, id uint) (RewardRedemption, error) {
	var redemption RewardRedemption

	result := d.db.WithContext(ctx).First(&redemption, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return RewardRedemption{}, ErrRedemptionNotFound
		}

		return RewardRedemption{}, result.Error
	}

	return redemption, nil
}

// ConfirmRedemption re-validates affordability and stock at confirmation time,
// then debits the user, decrements reward stock, transitions the redemption to
// completed and appends the negative ledger entry, all in one transaction. On
// an affordability or stock failure the redemption stays pending and remains
// confirmable later.
func (d *RewardDAO) ConfirmRedemption(ctx context.Context, id uint) (RewardRedemption, PointTransaction, error) {
	var (
		redemption RewardRedemption
		txn        PointTransaction
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&redemption, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRedemptionNotFound
			}

			return err
		}

		if redemption.Status != "pending" {
			return ErrRedemptionNotPending
		}

		var user User
		if err := forUpdate(tx).First(&user, redemption.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		var reward Reward
		if err := forUpdate(tx).First(&reward, redemption.RewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}

			return err
		}

		if user.Point < reward.Cost {
			return ErrInsufficientPoints
		}
		if reward.Stock <= 0 {
			return ErrRewardOutOfStock
		}

		if err := tx.Model(&User{}).Where("id = ?", user.ID).
			Update("point", user.Point-reward.Cost).Error; err != nil {
			return err
		}

		if err := tx.Model(&Reward{}).Where("id = ?", reward.ID).
			Update("stock", reward.Stock-1).Error; err != nil {
			return err
		}

		redemption.Status = "completed"
		if err := tx.Model(&RewardRedemption{}).Where("id = ?", redemption.ID).
			Update("status", redemption.Status).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRedemption
			}

			return err
		}

		var err error
		txn, err = insertPointTransaction(tx, user.ID, -reward.Cost,
			fmt.Sprintf("Reward redemption: %v", reward.Name))

		return err
	})
	if err != nil {
		return RewardRedemption{}, PointTransaction{}, err
	}

	return redemption, txn, nil
}

// CancelRedemption transitions a pending redemption to cancelled with no
// balance or stock effect.
func (d *RewardDAO) CancelRedemption(ctx context.Context, id uint) (RewardRedemption, error) {
	var redemption RewardRedemption

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&redemption, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRedemptionNotFound
			}

			return err
		}

		if redemption.Status != "pending" {
			return ErrRedemptionNotPending
		}

		redemption.Status = "cancelled"
		err := tx.Model(&RewardRedemption{}).Where("id = ?", redemption.ID).
			Update("status", redemption.Status).Error
		if err != nil && isUniqueViolation(err) {
			return ErrDuplicateRedemption
		}

		return err
	})
	if err != nil {
		return RewardRedemption{}, err
	}

	return redemption, nil
}
