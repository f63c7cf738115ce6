package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AdjustPointsRequest struct {
	UserID      uint   `json:"user_id"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

func (req *AdjustPointsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Points, validation.Required.Error("points cannot be zero")),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 255)),
	)
}

type ReconcileRequest struct {
	UserID uint `json:"user_id"`
}

func (req *ReconcileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}

type TournamentAddRequest struct {
	UserID             uint   `json:"user_id"`
	TournamentName     string `json:"tournament_name"`
	Position           string `json:"position"`
	PointEarned        int    `json:"point_earned"`
	RankingPointEarned int    `json:"ranking_point_earned"`
}

func (req *TournamentAddRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.TournamentName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Position, validation.Length(0, 255)),
		validation.Field(&req.PointEarned, validation.Min(0)),
		validation.Field(&req.RankingPointEarned, validation.Min(0)),
	)
}

type TournamentBulkEntry struct {
	UserID             uint   `json:"user_id"`
	Position           string `json:"position"`
	PointEarned        int    `json:"point_earned"`
	RankingPointEarned int    `json:"ranking_point_earned"`
}

type TournamentBulkRequest struct {
	TournamentName string                `json:"tournament_name"`
	Entries        []TournamentBulkEntry `json:"entries"`
}

// Validate only checks the envelope. Per-entry problems are reported in the
// batch result, not rejected up front, so one bad entry cannot block the rest.
func (req *TournamentBulkRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TournamentName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Entries, validation.Required),
	)
}
