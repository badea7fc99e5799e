package services

import (
	"errors"
	"fmt"
	"time"

	"octagon-oracle/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickService owns pick and bonus-pick writes. Both upserts re-score the
// stored row inside the same transaction, so a pick entered after the fight
// (or the event's bonuses) already settled is scored immediately instead of
// waiting for the next admin batch.
type PickService struct {
	DB *gorm.DB
}

func NewPickService(db *gorm.DB) *PickService {
	return &PickService{DB: db}
}

// PickInput is a user's prediction for one fight.
type PickInput struct {
	FightID    string `json:"fight_id"`
	WinnerName string `json:"winner_name"`
	Method     string `json:"method"`
	Details    string `json:"details"`
}

// BonusPickInput is a user's bonus predictions for one event.
type BonusPickInput struct {
	EventID                string `json:"event_id"`
	FightOfNightFightID    string `json:"fight_of_night_fight_id"`
	PerfOfNightFighterName string `json:"perf_of_night_fighter_name"`
}

// EventIDForFight resolves the owning event of a fight, for payment gating.
func (s *PickService) EventIDForFight(fightID string) (string, error) {
	var fight models.Fight
	if err := s.DB.Select("id", "event_id").First(&fight, "id = ?", fightID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: fight %s", ErrNotFound, fightID)
		}
		return "", err
	}
	return fight.EventID, nil
}

// UpsertPick inserts or replaces the user's pick for a fight, keyed on the
// (user_id, fight_id) unique constraint, then re-scores the stored row
// against the fight's current result. The fight row is locked for the whole
// transaction so a settlement batch cannot interleave.
func (s *PickService) UpsertPick(userID string, in PickInput) (*models.Pick, error) {
	if userID == "" || in.FightID == "" || in.WinnerName == "" || in.Method == "" || in.Details == "" {
		return nil, fmt.Errorf("%w: fight_id, winner_name, method and details are all required", ErrValidation)
	}
	if !models.ValidMethod(in.Method) {
		return nil, fmt.Errorf("%w: unknown method %q", ErrValidation, in.Method)
	}

	var stored models.Pick
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var fight models.Fight
		if err := lockForUpdate(tx).First(&fight, "id = ?", in.FightID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: fight %s", ErrNotFound, in.FightID)
			}
			return err
		}
		if !fight.HasFighter(in.WinnerName) {
			return fmt.Errorf("%w: %q is not a fighter on this fight", ErrValidation, in.WinnerName)
		}

		var event models.Event
		if err := tx.First(&event, "id = ?", fight.EventID).Error; err != nil {
			return err
		}
		if time.Now().After(event.PicksDeadline) {
			return fmt.Errorf("%w: picks are closed for this event", ErrForbidden)
		}

		pick := models.Pick{
			ID:                  uuid.NewString(),
			UserID:              userID,
			FightID:             fight.ID,
			PredictedWinnerName: in.WinnerName,
			PredictedMethod:     in.Method,
			PredictedDetails:    in.Details,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "fight_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"predicted_winner_name",
				"predicted_method",
				"predicted_details",
			}),
		}).Create(&pick).Error; err != nil {
			return err
		}

		// The insert may have taken the conflict path; reload the stored row
		// before scoring it.
		if err := tx.Where("user_id = ? AND fight_id = ?", userID, fight.ID).
			First(&stored).Error; err != nil {
			return err
		}
		stored.PointsAwarded = ScorePick(&stored, &fight)
		return tx.Model(&models.Pick{}).Where("id = ?", stored.ID).
			Update("points_awarded", stored.PointsAwarded).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpsertBonusPick is the event-level counterpart of UpsertPick, keyed on
// (user_id, event_id) and scored against the event's bonus-result fields.
func (s *PickService) UpsertBonusPick(userID string, in BonusPickInput) (*models.BonusPick, error) {
	if userID == "" || in.EventID == "" || in.FightOfNightFightID == "" || in.PerfOfNightFighterName == "" {
		return nil, fmt.Errorf("%w: event_id, fight_of_night_fight_id and perf_of_night_fighter_name are all required", ErrValidation)
	}

	var stored models.BonusPick
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).First(&event, "id = ?", in.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: event %s", ErrNotFound, in.EventID)
			}
			return err
		}
		if time.Now().After(event.PicksDeadline) {
			return fmt.Errorf("%w: picks are closed for this event", ErrForbidden)
		}

		var n int64
		if err := tx.Model(&models.Fight{}).
			Where("id = ? AND event_id = ?", in.FightOfNightFightID, event.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: fight %s is not on event %s", ErrValidation, in.FightOfNightFightID, event.ID)
		}

		bp := models.BonusPick{
			ID:                     uuid.NewString(),
			UserID:                 userID,
			EventID:                event.ID,
			FightOfNightFightID:    in.FightOfNightFightID,
			PerfOfNightFighterName: in.PerfOfNightFighterName,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"fight_of_night_fight_id",
				"perf_of_night_fighter_name",
			}),
		}).Create(&bp).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND event_id = ?", userID, event.ID).
			First(&stored).Error; err != nil {
			return err
		}
		stored.PointsAwarded = ScoreBonusPick(&stored, &event)
		return tx.Model(&models.BonusPick{}).Where("id = ?", stored.ID).
			Update("points_awarded", stored.PointsAwarded).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
