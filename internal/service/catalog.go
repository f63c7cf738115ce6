package service

import (
	"context"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
)

type CatalogRepository interface {
	CreateCard(ctx context.Context, card domain.Card) (domain.Card, error)
	CreateBooster(ctx context.Context, booster domain.Booster) (domain.Booster, error)
	ListCards(ctx context.Context) ([]domain.Card, error)
	ListBoosters(ctx context.Context) ([]domain.Booster, error)
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

func (s *CatalogService) CreateCard(ctx context.Context, card domain.Card) (domain.Card, error) {
	created, err := s.repo.CreateCard(ctx, card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("s.repo.CreateCard -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) CreateBooster(ctx context.Context, booster domain.Booster) (domain.Booster, error) {
	created, err := s.repo.CreateBooster(ctx, booster)
	if err != nil {
		return domain.Booster{}, fmt.Errorf("s.repo.CreateBooster -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) ListCards(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCards -> %w", err)
	}

	return cards, nil
}

func (s *CatalogService) ListBoosters(ctx context.Context) ([]domain.Booster, error) {
	boosters, err := s.repo.ListBoosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListBoosters -> %w", err)
	}

	return boosters, nil
}
