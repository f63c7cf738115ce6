package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Card struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Price       int64  `gorm:"not null"`
	Stock       int    `gorm:"not null;default:0"`
	Description string
	ImageURL    string
	CardCode    string `gorm:"size:10;not null"`
	Version     string `gorm:"size:255;not null;default:v1"`
	Rarity      string `gorm:"size:50"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Booster struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Price       int64  `gorm:"not null"`
	Stock       int    `gorm:"not null;default:0"`
	Description string
	ImageURL    string
	BoosterCode string `gorm:"size:10;not null"`
	Version     string `gorm:"size:255;not null;default:v1"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) InsertCard(ctx context.Context, card Card) (Card, error) {
	result := d.db.WithContext(ctx).Create(&card)
	if result.Error != nil {
		return Card{}, result.Error
	}

	return card, nil
}

func (d *CatalogDAO) InsertBooster(ctx context.Context, booster Booster) (Booster, error) {
	result := d.db.WithContext(ctx).Create(&booster)
	if result.Error != nil {
		return Booster{}, result.Error
	}

	return booster, nil
}

func (d *CatalogDAO) ListCards(ctx context.Context) ([]Card, error) {
	var cards []Card

	result := d.db.WithContext(ctx).Order("id").Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}

	return cards, nil
}

func (d *CatalogDAO) ListBoosters(ctx context.Context) ([]Booster, error) {
	var boosters []Booster

	result := d.db.WithContext(ctx).Order("id").Find(&boosters)
	if result.Error != nil {
		return nil, result.Error
	}

	return boosters, nil
}
