package response

import "github.com/duelstack/ytg-api/internal/domain"

type AdjustPointsResponse struct {
	Transaction domain.PointTransaction `json:"transaction"`
	Balance     int                     `json:"balance"`
}

type BalanceResponse struct {
	UserID uint `json:"user_id"`
	Point  int  `json:"point"`
}

// ReconcileResponse reports how far the cached counters had drifted from the
// ledger before repair. Zero drift means the projection was already in sync.
type ReconcileResponse struct {
	UserID            uint `json:"user_id"`
	PointDrift        int  `json:"point_drift"`
	RankingPointDrift int  `json:"ranking_point_drift"`
}

type UserRankingResponse struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	RankingPoint int    `json:"ranking_point"`
	Position     int64  `json:"position"`
}

type RedemptionResponse struct {
	Redemption  domain.RewardRedemption  `json:"redemption"`
	Transaction *domain.PointTransaction `json:"transaction,omitempty"`
}
