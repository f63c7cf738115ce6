package domain

import "time"

type ProductType string

const (
	ProductCard    ProductType = "card"
	ProductBooster ProductType = "booster"
)

// ProductRef points into either the card or the booster table. Order items
// carry one of these instead of a typed foreign key.
type ProductRef struct {
	Type ProductType `json:"product_type"`
	ID   uint        `json:"product_id"`
}

type Card struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CardCode    string    `json:"card_code"`
	Version     string    `json:"version"`
	Rarity      string    `json:"rarity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Booster struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	BoosterCode string    `json:"booster_code"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
