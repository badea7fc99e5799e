package services

import (
	"testing"

	"octagon-oracle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleFightResultsScoresAllPicks(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 1")
	fight := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)

	perfect := seedUser(t, db, "perfect", false)
	partial := seedUser(t, db, "partial", false)
	wrong := seedUser(t, db, "wrong", false)

	p1 := seedPick(t, db, perfect.ID, fight.ID, "Alice Silva", models.MethodKOTKO, "Round 2")
	p2 := seedPick(t, db, partial.ID, fight.ID, "Alice Silva", models.MethodDecision, "Round 2")
	p3 := seedPick(t, db, wrong.ID, fight.ID, "Bea Nunes", models.MethodKOTKO, "Round 2")

	err := svc.SettleFightResults([]FightResultInput{
		{FightID: fight.ID, WinnerName: "Alice Silva", Method: models.MethodKOTKO, Details: "Round 2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 45, pickPoints(t, db, p1.ID))
	assert.Equal(t, 20, pickPoints(t, db, p2.ID))
	assert.Equal(t, 0, pickPoints(t, db, p3.ID))

	var stored models.Fight
	require.NoError(t, db.First(&stored, "id = ?", fight.ID).Error)
	require.True(t, stored.Settled())
	assert.Equal(t, "Alice Silva", *stored.WinnerName)
}

// Re-settling with a corrected result must fully replace the previous points,
// not add to them.
func TestSettleFightResultsRescoreReplacesPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 2")
	fight := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	user := seedUser(t, db, "carla", false)
	pick := seedPick(t, db, user.ID, fight.ID, "Alice Silva", models.MethodKOTKO, "Round 2")

	require.NoError(t, svc.SettleFightResults([]FightResultInput{
		{FightID: fight.ID, WinnerName: "Alice Silva", Method: models.MethodKOTKO, Details: "Round 2"},
	}))
	assert.Equal(t, 45, pickPoints(t, db, pick.ID))

	// Same result again: idempotent.
	require.NoError(t, svc.SettleFightResults([]FightResultInput{
		{FightID: fight.ID, WinnerName: "Alice Silva", Method: models.MethodKOTKO, Details: "Round 2"},
	}))
	assert.Equal(t, 45, pickPoints(t, db, pick.ID))

	// Corrected result: points drop, they never accumulate.
	require.NoError(t, svc.SettleFightResults([]FightResultInput{
		{FightID: fight.ID, WinnerName: "Bea Nunes", Method: models.MethodSubmission, Details: "Round 1"},
	}))
	assert.Equal(t, 0, pickPoints(t, db, pick.ID))
}

func TestSettleFightResultsBatchRollsBackOnBadEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 3")
	f1 := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	f2 := seedFight(t, db, event.ID, "Carla Diaz", "Dana Ito", 1)
	user := seedUser(t, db, "erin", false)
	pick := seedPick(t, db, user.ID, f1.ID, "Alice Silva", models.MethodKOTKO, "Round 2")

	err := svc.SettleFightResults([]FightResultInput{
		{FightID: f1.ID, WinnerName: "Alice Silva", Method: models.MethodKOTKO, Details: "Round 2"},
		{FightID: "missing-fight", WinnerName: "Carla Diaz", Method: models.MethodDecision, Details: "Unanimous"},
	})
	require.ErrorIs(t, err, ErrNotFound)

	// First entry's writes rolled back with the batch.
	var stored models.Fight
	require.NoError(t, db.First(&stored, "id = ?", f1.ID).Error)
	assert.False(t, stored.Settled())
	assert.Equal(t, 0, pickPoints(t, db, pick.ID))

	// Winner not on the card is rejected before any write.
	err = svc.SettleFightResults([]FightResultInput{
		{FightID: f2.ID, WinnerName: "Alice Silva", Method: models.MethodDecision, Details: "Unanimous"},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSettleFightResultsValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	assert.ErrorIs(t, svc.SettleFightResults(nil), ErrValidation)
	assert.ErrorIs(t, svc.SettleFightResults([]FightResultInput{
		{FightID: "f", WinnerName: "A", Method: "Spinning Backfist", Details: "Round 1"},
	}), ErrValidation)
	assert.ErrorIs(t, svc.SettleFightResults([]FightResultInput{
		{FightID: "f", WinnerName: "A", Method: models.MethodKOTKO},
	}), ErrValidation)
}

func TestSettleBonusResults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 4")
	f1 := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	f2 := seedFight(t, db, event.ID, "Carla Diaz", "Dana Ito", 1)

	u1 := seedUser(t, db, "fay", false)
	u2 := seedUser(t, db, "gus", false)
	bp1 := seedBonusPick(t, db, u1.ID, event.ID, f1.ID, "Alice Silva")
	bp2 := seedBonusPick(t, db, u2.ID, event.ID, f2.ID, "Alice Silva")

	require.NoError(t, svc.SettleBonusResults(event.ID, f1.ID, "Alice Silva"))
	assert.Equal(t, 40, bonusPoints(t, db, bp1.ID))
	assert.Equal(t, 20, bonusPoints(t, db, bp2.ID))

	// Declining the fight-of-the-night bonus zeroes that category for everyone.
	require.NoError(t, svc.SettleBonusResults(event.ID, models.BonusNone, "Alice Silva"))
	assert.Equal(t, 20, bonusPoints(t, db, bp1.ID))
	assert.Equal(t, 20, bonusPoints(t, db, bp2.ID))
}

func TestSettleBonusResultsRejectsForeignFight(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 5")
	other := seedEvent(t, db, "Clash 6")
	foreign := seedFight(t, db, other.ID, "Alice Silva", "Bea Nunes", 0)

	assert.ErrorIs(t, svc.SettleBonusResults(event.ID, foreign.ID, "Alice Silva"), ErrValidation)
	assert.ErrorIs(t, svc.SettleBonusResults("missing-event", models.BonusNone, "Alice Silva"), ErrNotFound)
	assert.ErrorIs(t, svc.SettleBonusResults(event.ID, "", ""), ErrValidation)
}

func TestRenameFighterPropagates(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 7")
	fight := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	user := seedUser(t, db, "hana", false)
	pick := seedPick(t, db, user.ID, fight.ID, "Alice Silva", models.MethodKOTKO, "Round 2")
	bp := seedBonusPick(t, db, user.ID, event.ID, fight.ID, "Alice Silva")

	require.NoError(t, svc.SettleFightResults([]FightResultInput{
		{FightID: fight.ID, WinnerName: "Alice Silva", Method: models.MethodKOTKO, Details: "Round 2"},
	}))
	require.NoError(t, svc.SettleBonusResults(event.ID, fight.ID, "Alice Silva"))
	require.Equal(t, 45, pickPoints(t, db, pick.ID))
	require.Equal(t, 40, bonusPoints(t, db, bp.ID))

	require.NoError(t, svc.RenameFighterOnFight(fight.ID, FightUpdateInput{
		Fighter1Name: "Alicia Silva",
		Fighter2Name: "Bea Nunes",
	}))

	var storedFight models.Fight
	require.NoError(t, db.First(&storedFight, "id = ?", fight.ID).Error)
	assert.Equal(t, "Alicia Silva", storedFight.Fighter1Name)
	assert.Equal(t, "Alicia Silva", *storedFight.WinnerName)

	var storedPick models.Pick
	require.NoError(t, db.First(&storedPick, "id = ?", pick.ID).Error)
	assert.Equal(t, "Alicia Silva", storedPick.PredictedWinnerName)
	assert.Equal(t, 45, storedPick.PointsAwarded)

	var storedBP models.BonusPick
	require.NoError(t, db.First(&storedBP, "id = ?", bp.ID).Error)
	assert.Equal(t, "Alicia Silva", storedBP.PerfOfNightFighterName)
	assert.Equal(t, 40, storedBP.PointsAwarded)

	var storedEvent models.Event
	require.NoError(t, db.First(&storedEvent, "id = ?", event.ID).Error)
	assert.Equal(t, "Alicia Silva", *storedEvent.RealPerfOfNightFighter)
}

// Swapping the two fighters' names must not leave any row renamed twice.
func TestRenameFighterNameSwap(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 8")
	fight := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	u1 := seedUser(t, db, "ines", false)
	u2 := seedUser(t, db, "jo", false)
	pickAlice := seedPick(t, db, u1.ID, fight.ID, "Alice Silva", models.MethodKOTKO, "Round 1")
	pickBea := seedPick(t, db, u2.ID, fight.ID, "Bea Nunes", models.MethodDecision, "Unanimous")

	require.NoError(t, svc.RenameFighterOnFight(fight.ID, FightUpdateInput{
		Fighter1Name: "Bea Nunes",
		Fighter2Name: "Alice Silva",
	}))

	var p1, p2 models.Pick
	require.NoError(t, db.First(&p1, "id = ?", pickAlice.ID).Error)
	require.NoError(t, db.First(&p2, "id = ?", pickBea.ID).Error)
	assert.Equal(t, "Bea Nunes", p1.PredictedWinnerName)
	assert.Equal(t, "Alice Silva", p2.PredictedWinnerName)
}

func TestRenameFighterUntouchedNamesLeavePicksAlone(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettlementService(db)

	event := seedEvent(t, db, "Clash 9")
	fight := seedFight(t, db, event.ID, "Alice Silva", "Bea Nunes", 0)
	user := seedUser(t, db, "kim", false)
	pick := seedPick(t, db, user.ID, fight.ID, "Bea Nunes", models.MethodSubmission, "Round 1")

	order := 5
	require.NoError(t, svc.RenameFighterOnFight(fight.ID, FightUpdateInput{
		Fighter1Name:   "Alice Silva",
		Fighter1Record: "12-2-0",
		Fighter2Name:   "Bea Nunes",
		SortOrder:      &order,
	}))

	var storedFight models.Fight
	require.NoError(t, db.First(&storedFight, "id = ?", fight.ID).Error)
	assert.Equal(t, "12-2-0", storedFight.Fighter1Record)
	assert.Equal(t, 5, storedFight.SortOrder)

	var storedPick models.Pick
	require.NoError(t, db.First(&storedPick, "id = ?", pick.ID).Error)
	assert.Equal(t, "Bea Nunes", storedPick.PredictedWinnerName)
}
