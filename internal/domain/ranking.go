package domain

// RankingEntry is one row of the monthly leaderboard: ranking points earned by
// a user inside the queried month window.
type RankingEntry struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	RankingPoint int    `json:"ranking_point"`
}

// RankingPage is a manually paginated leaderboard slice.
type RankingPage struct {
	Entries    []RankingEntry `json:"entries"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int64          `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}
