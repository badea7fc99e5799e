package models

import "time"

// Result methods form a closed enumeration. Details are stored opaquely: a
// round number for finishes, a sub-type string ("Unanimous", "Split") for
// decisions. Nothing in the system assumes the field is numeric.
const (
	MethodKOTKO      = "KO/TKO"
	MethodSubmission = "Submission"
	MethodDecision   = "Decision"
)

// ValidMethod reports whether m is one of the three recognized result methods.
func ValidMethod(m string) bool {
	return m == MethodKOTKO || m == MethodSubmission || m == MethodDecision
}

// Fight is a single bout on an event's card. Fighters are identified by name,
// which doubles as the join key for picks; renaming a fighter therefore has
// to propagate (see SettlementService.RenameFighterOnFight).
// A fight is settled iff WinnerName is non-nil.
type Fight struct {
	ID      string `json:"id" gorm:"primaryKey"`
	EventID string `json:"event_id" gorm:"not null;index"`

	Fighter1Name     string `json:"fighter1_name" gorm:"not null"`
	Fighter1Record   string `json:"fighter1_record"`
	Fighter1ImageURL string `json:"fighter1_img"`
	Fighter2Name     string `json:"fighter2_name" gorm:"not null"`
	Fighter2Record   string `json:"fighter2_record"`
	Fighter2ImageURL string `json:"fighter2_img"`

	SortOrder int `json:"sort_order" gorm:"column:sort_order;default:0"`

	WinnerName    *string `json:"winner_name,omitempty"`
	ResultMethod  *string `json:"result_method,omitempty"`
	ResultDetails *string `json:"result_details,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Settled reports whether a result has been recorded for the fight.
func (f *Fight) Settled() bool {
	return f.WinnerName != nil
}

// HasFighter reports whether name is one of the fight's two fighters.
func (f *Fight) HasFighter(name string) bool {
	return name == f.Fighter1Name || name == f.Fighter2Name
}
