package services

import (
	"errors"
	"fmt"
	"log"

	"octagon-oracle/models"

	"gorm.io/gorm"
)

// SettlementService applies admin-submitted results and keeps every dependent
// pick's points consistent. Each operation runs in a single transaction: any
// failure rolls the whole batch back, so no partial point update is ever
// observable outside a commit.
type SettlementService struct {
	DB *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{DB: db}
}

// FightResultInput is one entry of an admin results batch.
type FightResultInput struct {
	FightID    string `json:"fight_id"`
	WinnerName string `json:"winner_name"`
	Method     string `json:"method"`
	Details    string `json:"details"`
}

// FightUpdateInput carries the editable fight fields. Name changes trigger
// cross-table rename propagation.
type FightUpdateInput struct {
	Fighter1Name     string `json:"fighter1_name"`
	Fighter1Record   string `json:"fighter1_record"`
	Fighter1ImageURL string `json:"fighter1_img"`
	Fighter2Name     string `json:"fighter2_name"`
	Fighter2Record   string `json:"fighter2_record"`
	Fighter2ImageURL string `json:"fighter2_img"`
	SortOrder        *int   `json:"sort_order"`
}

// SettleFightResults writes a batch of fight results and re-scores every pick
// on every affected fight. The batch is all-or-nothing: one bad fight id or
// result rolls back every result and point write in the batch.
func (s *SettlementService) SettleFightResults(results []FightResultInput) error {
	if len(results) == 0 {
		return fmt.Errorf("%w: results batch is empty", ErrValidation)
	}
	for _, r := range results {
		if r.FightID == "" || r.WinnerName == "" || r.Method == "" || r.Details == "" {
			return fmt.Errorf("%w: fight_id, winner_name, method and details are all required", ErrValidation)
		}
		if !models.ValidMethod(r.Method) {
			return fmt.Errorf("%w: unknown result method %q", ErrValidation, r.Method)
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			var fight models.Fight
			if err := lockForUpdate(tx).First(&fight, "id = ?", r.FightID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: fight %s", ErrNotFound, r.FightID)
				}
				return err
			}
			if !fight.HasFighter(r.WinnerName) {
				return fmt.Errorf("%w: %q is not a fighter on fight %s", ErrValidation, r.WinnerName, fight.ID)
			}

			fight.WinnerName = &r.WinnerName
			fight.ResultMethod = &r.Method
			fight.ResultDetails = &r.Details
			if err := tx.Save(&fight).Error; err != nil {
				return err
			}

			if err := rescoreFightPicks(tx, &fight); err != nil {
				return err
			}
		}
		return nil
	})
}

// SettleBonusResults writes the event's two bonus-result fields and re-scores
// every bonus pick for the event in one transaction. The models.BonusNone
// sentinel clears a category: it is a deliberate decision to award zero, as
// opposed to a category that simply has not been decided yet.
func (s *SettlementService) SettleBonusResults(eventID, fotnFightID, potnFighter string) error {
	if eventID == "" || fotnFightID == "" || potnFighter == "" {
		return fmt.Errorf("%w: event_id, fight_of_night_fight_id and perf_of_night_fighter_name are required", ErrValidation)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: event %s", ErrNotFound, eventID)
			}
			return err
		}

		if fotnFightID != models.BonusNone {
			var n int64
			if err := tx.Model(&models.Fight{}).
				Where("id = ? AND event_id = ?", fotnFightID, eventID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: fight %s is not on event %s", ErrValidation, fotnFightID, eventID)
			}
		}

		event.RealFightOfNightID = &fotnFightID
		event.RealPerfOfNightFighter = &potnFighter
		if err := tx.Save(&event).Error; err != nil {
			return err
		}

		return rescoreEventBonusPicks(tx, &event)
	})
}

// RenameFighterOnFight updates a fight's editable fields. For every fighter
// whose name changed it propagates the rename to each pick, bonus pick and
// event bonus-result row still holding the old name, then re-scores the
// fight's picks against its current result. Identity is by name, so skipping
// the propagation would silently orphan historical data.
func (s *SettlementService) RenameFighterOnFight(fightID string, input FightUpdateInput) error {
	if fightID == "" {
		return fmt.Errorf("%w: fight id is required", ErrValidation)
	}
	if input.Fighter1Name == "" || input.Fighter2Name == "" {
		return fmt.Errorf("%w: both fighter names are required", ErrValidation)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var fight models.Fight
		if err := lockForUpdate(tx).First(&fight, "id = ?", fightID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: fight %s", ErrNotFound, fightID)
			}
			return err
		}

		type rename struct{ from, to string }
		var renames []rename
		if input.Fighter1Name != fight.Fighter1Name {
			renames = append(renames, rename{fight.Fighter1Name, input.Fighter1Name})
		}
		if input.Fighter2Name != fight.Fighter2Name {
			renames = append(renames, rename{fight.Fighter2Name, input.Fighter2Name})
		}

		fight.Fighter1Name = input.Fighter1Name
		fight.Fighter1Record = input.Fighter1Record
		fight.Fighter1ImageURL = input.Fighter1ImageURL
		fight.Fighter2Name = input.Fighter2Name
		fight.Fighter2Record = input.Fighter2Record
		fight.Fighter2ImageURL = input.Fighter2ImageURL
		if input.SortOrder != nil {
			fight.SortOrder = *input.SortOrder
		}

		// Collect affected rows per old name before writing anything, so
		// swapping the two fighters' names cannot re-match rows already
		// renamed in this pass.
		pickTargets := map[string]string{}      // pick id -> new name
		bonusTargets := map[string]string{}     // bonus pick id -> new name
		eventPotn := ""                         // new value for the event's potn field, if it matched
		for _, rn := range renames {
			var pickIDs []string
			if err := tx.Model(&models.Pick{}).
				Where("fight_id = ? AND predicted_winner_name = ?", fight.ID, rn.from).
				Pluck("id", &pickIDs).Error; err != nil {
				return err
			}
			for _, id := range pickIDs {
				pickTargets[id] = rn.to
			}

			var bonusIDs []string
			if err := tx.Model(&models.BonusPick{}).
				Where("event_id = ? AND perf_of_night_fighter_name = ?", fight.EventID, rn.from).
				Pluck("id", &bonusIDs).Error; err != nil {
				return err
			}
			for _, id := range bonusIDs {
				bonusTargets[id] = rn.to
			}

			var n int64
			if err := tx.Model(&models.Event{}).
				Where("id = ? AND real_perf_of_night_fighter = ?", fight.EventID, rn.from).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				eventPotn = rn.to
			}

			if fight.WinnerName != nil && *fight.WinnerName == rn.from {
				to := rn.to
				fight.WinnerName = &to
			}
		}

		if err := tx.Save(&fight).Error; err != nil {
			return err
		}
		for id, name := range pickTargets {
			if err := tx.Model(&models.Pick{}).Where("id = ?", id).
				Update("predicted_winner_name", name).Error; err != nil {
				return err
			}
		}
		for id, name := range bonusTargets {
			if err := tx.Model(&models.BonusPick{}).Where("id = ?", id).
				Update("perf_of_night_fighter_name", name).Error; err != nil {
				return err
			}
		}
		if eventPotn != "" {
			if err := tx.Model(&models.Event{}).Where("id = ?", fight.EventID).
				Update("real_perf_of_night_fighter", eventPotn).Error; err != nil {
				return err
			}
		}

		if err := rescoreFightPicks(tx, &fight); err != nil {
			return err
		}

		// A rename that touched the event's bonus fields shifts bonus scoring
		// too, so re-derive those points as well.
		if len(renames) > 0 {
			var event models.Event
			if err := tx.First(&event, "id = ?", fight.EventID).Error; err != nil {
				return err
			}
			if err := rescoreEventBonusPicks(tx, &event); err != nil {
				return err
			}
		}

		log.Printf("fight %s updated (%d fighter rename(s) propagated)", fight.ID, len(renames))
		return nil
	})
}

// rescoreFightPicks zeroes every pick for the fight and recomputes points from
// the stored result. Caller must hold the fight row lock.
func rescoreFightPicks(tx *gorm.DB, fight *models.Fight) error {
	if err := tx.Model(&models.Pick{}).
		Where("fight_id = ?", fight.ID).
		Update("points_awarded", 0).Error; err != nil {
		return err
	}

	var picks []models.Pick
	if err := tx.Where("fight_id = ?", fight.ID).Find(&picks).Error; err != nil {
		return err
	}
	for i := range picks {
		points := ScorePick(&picks[i], fight)
		if points == 0 {
			continue
		}
		if err := tx.Model(&models.Pick{}).Where("id = ?", picks[i].ID).
			Update("points_awarded", points).Error; err != nil {
			return err
		}
	}
	return nil
}

// rescoreEventBonusPicks is the bonus-pick counterpart of rescoreFightPicks,
// keyed by event. Caller must hold the event or fight row lock.
func rescoreEventBonusPicks(tx *gorm.DB, event *models.Event) error {
	if err := tx.Model(&models.BonusPick{}).
		Where("event_id = ?", event.ID).
		Update("points_awarded", 0).Error; err != nil {
		return err
	}

	var bonusPicks []models.BonusPick
	if err := tx.Where("event_id = ?", event.ID).Find(&bonusPicks).Error; err != nil {
		return err
	}
	for i := range bonusPicks {
		points := ScoreBonusPick(&bonusPicks[i], event)
		if points == 0 {
			continue
		}
		if err := tx.Model(&models.BonusPick{}).Where("id = ?", bonusPicks[i].ID).
			Update("points_awarded", points).Error; err != nil {
			return err
		}
	}
	return nil
}
