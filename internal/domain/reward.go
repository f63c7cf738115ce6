package domain

import "time"

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionCompleted RedemptionStatus = "completed"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

type Reward struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cost        int    `json:"cost"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

type RewardRedemption struct {
	ID         uint             `json:"id"`
	UserID     uint             `json:"user_id"`
	RewardID   uint             `json:"reward_id"`
	Status     RedemptionStatus `json:"status"`
	RedeemedAt time.Time        `json:"redeemed_at"`
}

// Transitionable reports whether the redemption may still change status.
// Completed and cancelled are terminal.
func (r *RewardRedemption) Transitionable() bool {
	return r.Status == RedemptionPending
}
