package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type OrderItemRequest struct {
	ProductType string `json:"product_type"`
	ProductID   uint   `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

func (req OrderItemRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.ProductType, validation.Required, validation.In("card", "booster")),
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

func (req *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Items, validation.Required),
	)
}

type RedeemRequest struct {
	RewardID uint `json:"reward_id"`
}

func (req *RedeemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RewardID, validation.Required),
	)
}
