package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCardRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	CardCode    string `json:"card_code"`
	Version     string `json:"version"`
	Rarity      string `json:"rarity"`
}

func (r *CreateCardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0)),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.CardCode, validation.Required, validation.Length(1, 10)),
		validation.Field(&r.Version, validation.Length(0, 255)),
		validation.Field(&r.Rarity, validation.Length(0, 50)),
	)
}

type CreateBoosterRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	BoosterCode string `json:"booster_code"`
	Version     string `json:"version"`
}

func (r *CreateBoosterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0)),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.BoosterCode, validation.Required, validation.Length(1, 10)),
		validation.Field(&r.Version, validation.Length(0, 255)),
	)
}

type CreateRewardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
}

func (r *CreateRewardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Cost, validation.Min(1)),
		validation.Field(&r.Stock, validation.Min(0)),
	)
}
