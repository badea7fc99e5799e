package models

import "time"

// Pick is a user's prediction for a single fight, unique per (user, fight).
// PointsAwarded is never accumulated: it is recomputed from scratch whenever
// the fight's result changes or the pick itself is resubmitted, so it stays
// derivable from (pick, result) alone.
type Pick struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;uniqueIndex:idx_picks_user_fight"`
	FightID string `json:"fight_id" gorm:"not null;uniqueIndex:idx_picks_user_fight;index"`

	PredictedWinnerName string `json:"predicted_winner_name" gorm:"not null"`
	PredictedMethod     string `json:"predicted_method" gorm:"not null"`
	PredictedDetails    string `json:"predicted_details" gorm:"not null"`

	PointsAwarded int `json:"points_awarded" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
