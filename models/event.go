package models

import "time"

// Event statuses. The scheduler moves upcoming → live once the picks deadline
// passes; completion stays an explicit admin action.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusLive      = "live"
	EventStatusCompleted = "completed"
)

// BonusNone is the sentinel an admin submits to deliberately award nothing for
// a bonus category. It is distinct from a nil field, which means the category
// has not been decided yet. Both suppress scoring.
const BonusNone = "none"

// Event is a fight card users pay to enter predictions for.
type Event struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"uniqueIndex"`
	Date          time.Time `json:"date" gorm:"not null"`
	PicksDeadline time.Time `json:"picks_deadline" gorm:"not null"`
	EntryFee      float64   `json:"entry_fee" gorm:"default:0"`
	Status        string    `json:"status" gorm:"default:'upcoming'"`
	MainPhotoURL  string    `json:"main_photo_url"`

	// Bonus results. Nil until the admin settles the category; BonusNone when
	// the admin decided the category awards nothing.
	RealFightOfNightID     *string `json:"real_fight_of_night_id,omitempty"`
	RealPerfOfNightFighter *string `json:"real_perf_of_night_fighter,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Fights []Fight `json:"fights,omitempty" gorm:"foreignKey:EventID"`
}
