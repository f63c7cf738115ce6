package domain

import "time"

// PointTransaction is an immutable ledger entry. Positive points are a credit,
// negative a debit; zero is rejected before it ever reaches the ledger.
type PointTransaction struct {
	ID          string    `json:"id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"user"`
	Points      int       `json:"points"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BulkResultEntry is one participant line in a bulk tournament submission.
// Users are addressed by their immutable id; display names are looked up, not
// trusted from input.
type BulkResultEntry struct {
	UserID             uint   `json:"user_id"`
	Position           string `json:"position"`
	PointEarned        int    `json:"point_earned"`
	RankingPointEarned int    `json:"ranking_point_earned"`
}

// BulkEntryError records a failed entry by its index in the submitted batch.
type BulkEntryError struct {
	Index  int    `json:"index"`
	UserID uint   `json:"user_id"`
	Reason string `json:"reason"`
}

// BulkReport aggregates the per-entry outcomes of one bulk tournament run.
// A batch is never rolled back as a whole; each entry commits or fails on its
// own.
type BulkReport struct {
	BatchID        string             `json:"batch_id"`
	TournamentName string             `json:"tournament_name"`
	Succeeded      []TournamentResult `json:"succeeded"`
	Errors         []BulkEntryError   `json:"errors"`
}

// AllSucceeded reports whether every entry in the batch committed.
func (r *BulkReport) AllSucceeded() bool {
	return len(r.Errors) == 0
}

type TournamentResult struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	Username           string    `json:"user"`
	TournamentName     string    `json:"tournament_name"`
	Position           string    `json:"position"`
	PointEarned        int       `json:"point_earned"`
	RankingPointEarned int       `json:"ranking_point_earned"`
	CreatedAt          time.Time `json:"created_at"`
}
