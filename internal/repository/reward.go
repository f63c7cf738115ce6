package repository

import (
	"context"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository/dao"
)

var (
	ErrRewardNotFound       = dao.ErrRewardNotFound
	ErrRedemptionNotFound   = dao.ErrRedemptionNotFound
	ErrRedemptionNotPending = dao.ErrRedemptionNotPending
	ErrDuplicateRedemption  = dao.ErrDuplicateRedemption
	ErrRewardOutOfStock     = dao.ErrRewardOutOfStock
)

type RewardDAO interface {
	InsertReward(ctx context.Context, reward dao.Reward) (dao.Reward, error)
	ListRewards(ctx context.Context) ([]dao.Reward, error)
	CreateRedemption(ctx context.Context, userID, rewardID uint) (dao.RewardRedemption, error)
	ConfirmRedemption(ctx context.Context, id uint) (dao.RewardRedemption, dao.PointTransaction, error)
	CancelRedemption(ctx context.Context, id uint) (dao.RewardRedemption, error)
}

type RewardRepository struct {
	dao RewardDAO
}

func NewRewardRepository(dao RewardDAO) *RewardRepository {
	return &RewardRepository{
		dao: dao,
	}
}

func (r *RewardRepository) CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := r.dao.InsertReward(ctx, dao.Reward{
		Name:        reward.Name,
		Description: reward.Description,
		Cost:        reward.Cost,
		Stock:       reward.Stock,
		ImageURL:    reward.ImageURL,
	})
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.InsertReward -> %w", err)
	}

	return r.rewardDaoToDomain(created), nil
}

func (r *RewardRepository) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	found, err := r.dao.ListRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListRewards -> %w", err)
	}

	rewards := make([]domain.Reward, len(found))
	for i, reward := range found {
		rewards[i] = r.rewardDaoToDomain(reward)
	}

	return rewards, nil
}

func (r *RewardRepository) CreateRedemption(ctx context.Context, userID, rewardID uint) (domain.RewardRedemption, error) {
	created, err := r.dao.CreateRedemption(ctx, userID, rewardID)
	if err != nil {
		return domain.RewardRedemption{}, fmt.Errorf("r.dao.CreateRedemption -> %w", err)
	}

	return r.redemptionDaoToDomain(created), nil
}

func (r *RewardRepository) ConfirmRedemption(ctx context.Context, id uint) (domain.RewardRedemption, domain.PointTransaction, error) {
	confirmed, txn, err := r.dao.ConfirmRedemption(ctx, id)
	if err != nil {
		return domain.RewardRedemption{}, domain.PointTransaction{}, fmt.Errorf("r.dao.ConfirmRedemption -> %w", err)
	}

	return r.redemptionDaoToDomain(confirmed), domain.PointTransaction{
		ID:          txn.ID,
		UserID:      txn.UserID,
		Points:      txn.Points,
		Description: txn.Description,
		CreatedAt:   txn.CreatedAt,
	}, nil
}

func (r *RewardRepository) CancelRedemption(ctx context.Context, id uint) (domain.RewardRedemption, error) {
	cancelled, err := r.dao.CancelRedemption(ctx, id)
	if err != nil {
		return domain.RewardRedemption{}, fmt.Errorf("r.dao.CancelRedemption -> %w", err)
	}

	return r.redemptionDaoToDomain(cancelled), nil
}

func (r *RewardRepository) rewardDaoToDomain(reward dao.Reward) domain.Reward {
	return domain.Reward{
		ID:          reward.ID,
		Name:        reward.Name,
		Description: reward.Description,
		Cost:        reward.Cost,
		Stock:       reward.Stock,
		ImageURL:    reward.ImageURL,
	}
}

func (r *RewardRepository) redemptionDaoToDomain(redemption dao.RewardRedemption) domain.RewardRedemption {
	return domain.RewardRedemption{
		ID:         redemption.ID,
		UserID:     redemption.UserID,
		RewardID:   redemption.RewardID,
		Status:     domain.RedemptionStatus(redemption.Status),
		RedeemedAt: redemption.RedeemedAt,
	}
}
