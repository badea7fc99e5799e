package models

import "time"

// BonusPick holds a user's fight-of-the-night and performance-of-the-night
// predictions for an event, unique per (user, event). Scored against the
// event's bonus-result fields under the same recompute-from-scratch contract
// as Pick.
type BonusPick struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;uniqueIndex:idx_bonus_picks_user_event"`
	EventID string `json:"event_id" gorm:"not null;uniqueIndex:idx_bonus_picks_user_event;index"`

	FightOfNightFightID    string `json:"fight_of_night_fight_id" gorm:"not null"`
	PerfOfNightFighterName string `json:"perf_of_night_fighter_name" gorm:"not null"`

	PointsAwarded int `json:"points_awarded" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
