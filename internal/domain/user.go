package domain

import "time"

type User struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	Nickname       string     `json:"nickname"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Password       string     `json:"-"`
	IsAdmin        bool       `json:"is_admin"`
	Point          int        `json:"point"`
	RankingPoint   int        `json:"ranking_point"`
	LastNameChange *time.Time `json:"last_name_change,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CanChangeNickname reports whether the 30-day nickname change window has
// elapsed since the last change.
func (u *User) CanChangeNickname(now time.Time) bool {
	if u.LastNameChange == nil {
		return true
	}
	return now.Sub(*u.LastNameChange) >= 30*24*time.Hour
}
