package repository

import (
	"context"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository/dao"
)

type CatalogDAO interface {
	InsertCard(ctx context.Context, card dao.Card) (dao.Card, error)
	InsertBooster(ctx context.Context, booster dao.Booster) (dao.Booster, error)
	ListCards(ctx context.Context) ([]dao.Card, error)
	ListBoosters(ctx context.Context) ([]dao.Booster, error)
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) CreateCard(ctx context.Context, card domain.Card) (domain.Card, error) {
	created, err := r.dao.InsertCard(ctx, dao.Card{
		Name:        card.Name,
		Price:       card.Price,
		Stock:       card.Stock,
		Description: card.Description,
		ImageURL:    card.ImageURL,
		CardCode:    card.CardCode,
		Version:     card.Version,
		Rarity:      card.Rarity,
	})
	if err != nil {
		return domain.Card{}, fmt.Errorf("r.dao.InsertCard -> %w", err)
	}

	return r.cardDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateBooster(ctx context.Context, booster domain.Booster) (domain.Booster, error) {
	created, err := r.dao.InsertBooster(ctx, dao.Booster{
		Name:        booster.Name,
		Price:       booster.Price,
		Stock:       booster.Stock,
		Description: booster.Description,
		ImageURL:    booster.ImageURL,
		BoosterCode: booster.BoosterCode,
		Version:     booster.Version,
	})
	if err != nil {
		return domain.Booster{}, fmt.Errorf("r.dao.InsertBooster -> %w", err)
	}

	return r.boosterDaoToDomain(created), nil
}

func (r *CatalogRepository) ListCards(ctx context.Context) ([]domain.Card, error) {
	found, err := r.dao.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListCards -> %w", err)
	}

	cards := make([]domain.Card, len(found))
	for i, card := range found {
		cards[i] = r.cardDaoToDomain(card)
	}

	return cards, nil
}

func (r *CatalogRepository) ListBoosters(ctx context.Context) ([]domain.Booster, error) {
	found, err := r.dao.ListBoosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBoosters -> %w", err)
	}

	boosters := make([]domain.Booster, len(found))
	for i, booster := range found {
		boosters[i] = r.boosterDaoToDomain(booster)
	}

	return boosters, nil
}

func (r *CatalogRepository) cardDaoToDomain(c dao.Card) domain.Card {
	return domain.Card{
		ID:          c.ID,
		Name:        c.Name,
		Price:       c.Price,
		Stock:       c.Stock,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CardCode:    c.CardCode,
		Version:     c.Version,
		Rarity:      c.Rarity,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *CatalogRepository) boosterDaoToDomain(b dao.Booster) domain.Booster {
	return domain.Booster{
		ID:          b.ID,
		Name:        b.Name,
		Price:       b.Price,
		Stock:       b.Stock,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		BoosterCode: b.BoosterCode,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
