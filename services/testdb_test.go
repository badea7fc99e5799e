package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"octagon-oracle/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a per-test in-memory database. A single connection keeps
// gorm's pool from silently opening a second, empty :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Fight{},
		&models.Pick{},
		&models.BonusPick{},
		&models.Payment{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(username) + "@example.com",
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedEvent(t *testing.T, db *gorm.DB, name string) models.Event {
	t.Helper()
	e := models.Event{
		ID:            uuid.NewString(),
		Name:          name,
		Slug:          strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Date:          time.Now().Add(48 * time.Hour),
		PicksDeadline: time.Now().Add(24 * time.Hour),
		EntryFee:      10,
		Status:        models.EventStatusUpcoming,
	}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func seedFight(t *testing.T, db *gorm.DB, eventID, fighter1, fighter2 string, order int) models.Fight {
	t.Helper()
	f := models.Fight{
		ID:           uuid.NewString(),
		EventID:      eventID,
		Fighter1Name: fighter1,
		Fighter2Name: fighter2,
		SortOrder:    order,
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

func seedPick(t *testing.T, db *gorm.DB, userID, fightID, winner, method, details string) models.Pick {
	t.Helper()
	p := models.Pick{
		ID:                  uuid.NewString(),
		UserID:              userID,
		FightID:             fightID,
		PredictedWinnerName: winner,
		PredictedMethod:     method,
		PredictedDetails:    details,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedBonusPick(t *testing.T, db *gorm.DB, userID, eventID, fotnFightID, potnFighter string) models.BonusPick {
	t.Helper()
	bp := models.BonusPick{
		ID:                     uuid.NewString(),
		UserID:                 userID,
		EventID:                eventID,
		FightOfNightFightID:    fotnFightID,
		PerfOfNightFighterName: potnFighter,
	}
	require.NoError(t, db.Create(&bp).Error)
	return bp
}

func pickPoints(t *testing.T, db *gorm.DB, pickID string) int {
	t.Helper()
	var p models.Pick
	require.NoError(t, db.First(&p, "id = ?", pickID).Error)
	return p.PointsAwarded
}

func bonusPoints(t *testing.T, db *gorm.DB, bonusPickID string) int {
	t.Helper()
	var bp models.BonusPick
	require.NoError(t, db.First(&bp, "id = ?", bonusPickID).Error)
	return bp.PointsAwarded
}
