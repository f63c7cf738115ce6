package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
)

var (
	ErrRewardNotFound       = repository.ErrRewardNotFound
	ErrRedemptionNotFound   = repository.ErrRedemptionNotFound
	ErrRedemptionNotPending = repository.ErrRedemptionNotPending
	ErrDuplicateRedemption  = repository.ErrDuplicateRedemption
	ErrRewardOutOfStock     = repository.ErrRewardOutOfStock
	ErrInsufficientPoints   = repository.ErrInsufficientPoints
)

type RewardRepository interface {
	CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	ListRewards(ctx context.Context) ([]domain.Reward, error)
	CreateRedemption(ctx context.Context, userID, rewardID uint) (domain.RewardRedemption, error)
	ConfirmRedemption(ctx context.Context, id uint) (domain.RewardRedemption, domain.PointTransaction, error)
	CancelRedemption(ctx context.Context, id uint) (domain.RewardRedemption, error)
}

type RewardService struct {
	repo RewardRepository
}

func NewRewardService(repo RewardRepository) *RewardService {
	return &RewardService{
		repo: repo,
	}
}

func (s *RewardService) CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := s.repo.CreateReward(ctx, reward)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.CreateReward -> %w", err)
	}

	return created, nil
}

func (s *RewardService) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	rewards, err := s.repo.ListRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListRewards -> %w", err)
	}

	return rewards, nil
}

// Redeem opens a pending redemption for the reward. Affordability and stock
// are not checked here; both are validated under lock when an admin confirms,
// since the balance may change in between.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uint) (domain.RewardRedemption, error) {
	redemption, err := s.repo.CreateRedemption(ctx, userID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRewardNotFound):
			return domain.RewardRedemption{}, ErrRewardNotFound
		case errors.Is(err, repository.ErrDuplicateRedemption):
			return domain.RewardRedemption{}, ErrDuplicateRedemption
		}

		return domain.RewardRedemption{}, fmt.Errorf("s.repo.CreateRedemption -> %w", err)
	}

	return redemption, nil
}

// ConfirmRedemption completes a pending redemption: re-validates points and
// stock under lock, debits the balance, decrements stock and writes the
// negative ledger entry atomically. Failures leave the redemption pending so
// it can be confirmed again later.
func (s *RewardService) ConfirmRedemption(ctx context.Context, redemptionID uint) (domain.RewardRedemption, domain.PointTransaction, error) {
	redemption, txn, err := s.repo.ConfirmRedemption(ctx, redemptionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRedemptionNotFound):
			return domain.RewardRedemption{}, domain.PointTransaction{}, ErrRedemptionNotFound
		case errors.Is(err, repository.ErrRedemptionNotPending):
			return domain.RewardRedemption{}, domain.PointTransaction{}, ErrRedemptionNotPending
		case errors.Is(err, repository.ErrInsufficientPoints):
			return domain.RewardRedemption{}, domain.PointTransaction{}, ErrInsufficientPoints
		case errors.Is(err, repository.ErrRewardOutOfStock):
			return domain.RewardRedemption{}, domain.PointTransaction{}, ErrRewardOutOfStock
		case errors.Is(err, repository.ErrDuplicateRedemption):
			return domain.RewardRedemption{}, domain.PointTransaction{}, ErrDuplicateRedemption
		}

		return domain.RewardRedemption{}, domain.PointTransaction{}, fmt.Errorf("s.repo.ConfirmRedemption -> %w", err)
	}

	return redemption, txn, nil
}

// CancelRedemption voids a pending redemption. No balance or stock effect.
func (s *RewardService) CancelRedemption(ctx context.Context, redemptionID uint) (domain.RewardRedemption, error) {
	redemption, err := s.repo.CancelRedemption(ctx, redemptionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRedemptionNotFound):
			return domain.RewardRedemption{}, ErrRedemptionNotFound
		case errors.Is(err, repository.ErrRedemptionNotPending):
			return domain.RewardRedemption{}, ErrRedemptionNotPending
		}

		return domain.RewardRedemption{}, fmt.Errorf("s.repo.CancelRedemption -> %w", err)
	}

	return redemption, nil
}
