package services

import (
	"testing"

	"octagon-oracle/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func settledFight(winner, method, details string) *models.Fight {
	return &models.Fight{
		ID:            "f1",
		Fighter1Name:  "Alice Silva",
		Fighter2Name:  "Bea Nunes",
		WinnerName:    strPtr(winner),
		ResultMethod:  strPtr(method),
		ResultDetails: strPtr(details),
	}
}

func TestScorePickCascade(t *testing.T) {
	fight := settledFight("Alice Silva", models.MethodKOTKO, "Round 2")

	tests := []struct {
		name    string
		winner  string
		method  string
		details string
		want    int
	}{
		{"perfect pick", "Alice Silva", models.MethodKOTKO, "Round 2", 45},
		{"winner and method only", "Alice Silva", models.MethodKOTKO, "Round 1", 35},
		{"winner only", "Alice Silva", models.MethodSubmission, "Round 2", 20},
		{"wrong winner gates everything", "Bea Nunes", models.MethodKOTKO, "Round 2", 0},
		{"empty pick", "", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := &models.Pick{
				PredictedWinnerName: tt.winner,
				PredictedMethod:     tt.method,
				PredictedDetails:    tt.details,
			}
			assert.Equal(t, tt.want, ScorePick(pick, fight))
		})
	}
}

func TestScorePickUnsettledFight(t *testing.T) {
	fight := &models.Fight{ID: "f1", Fighter1Name: "Alice Silva", Fighter2Name: "Bea Nunes"}
	pick := &models.Pick{PredictedWinnerName: "Alice Silva", PredictedMethod: models.MethodKOTKO, PredictedDetails: "Round 2"}

	assert.Equal(t, 0, ScorePick(pick, fight))
	assert.Equal(t, 0, ScorePick(pick, nil))
}

// Details strings carry no structure of their own. "Round 2" against a
// decision result's "Unanimous" is simply a mismatch, and case or whitespace
// differences never match.
func TestScorePickDetailsAreOpaque(t *testing.T) {
	fight := settledFight("Alice Silva", models.MethodDecision, "Unanimous")

	exact := &models.Pick{PredictedWinnerName: "Alice Silva", PredictedMethod: models.MethodDecision, PredictedDetails: "Unanimous"}
	assert.Equal(t, 45, ScorePick(exact, fight))

	round := &models.Pick{PredictedWinnerName: "Alice Silva", PredictedMethod: models.MethodDecision, PredictedDetails: "Round 3"}
	assert.Equal(t, 35, ScorePick(round, fight))

	cased := &models.Pick{PredictedWinnerName: "Alice Silva", PredictedMethod: models.MethodDecision, PredictedDetails: "unanimous"}
	assert.Equal(t, 35, ScorePick(cased, fight))
}

func TestScorePickDeterministic(t *testing.T) {
	fight := settledFight("Bea Nunes", models.MethodSubmission, "Round 1")
	pick := &models.Pick{PredictedWinnerName: "Bea Nunes", PredictedMethod: models.MethodSubmission, PredictedDetails: "Round 3"}

	first := ScorePick(pick, fight)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ScorePick(pick, fight))
	}
	assert.Equal(t, 35, first)
}

func TestScoreBonusPickCategoriesAreIndependent(t *testing.T) {
	event := &models.Event{
		ID:                     "e1",
		RealFightOfNightID:     strPtr("fight-3"),
		RealPerfOfNightFighter: strPtr("Alice Silva"),
	}

	both := &models.BonusPick{FightOfNightFightID: "fight-3", PerfOfNightFighterName: "Alice Silva"}
	assert.Equal(t, 40, ScoreBonusPick(both, event))

	fotnOnly := &models.BonusPick{FightOfNightFightID: "fight-3", PerfOfNightFighterName: "Bea Nunes"}
	assert.Equal(t, 20, ScoreBonusPick(fotnOnly, event))

	potnOnly := &models.BonusPick{FightOfNightFightID: "fight-1", PerfOfNightFighterName: "Alice Silva"}
	assert.Equal(t, 20, ScoreBonusPick(potnOnly, event))

	neither := &models.BonusPick{FightOfNightFightID: "fight-1", PerfOfNightFighterName: "Bea Nunes"}
	assert.Equal(t, 0, ScoreBonusPick(neither, event))
}

// An unset category (nil) and a category settled as "none" both award zero,
// even when the pick literally matches the sentinel.
func TestScoreBonusPickUnsetAndNone(t *testing.T) {
	unset := &models.Event{ID: "e1"}
	bp := &models.BonusPick{FightOfNightFightID: "fight-3", PerfOfNightFighterName: "Alice Silva"}
	assert.Equal(t, 0, ScoreBonusPick(bp, unset))

	declined := &models.Event{
		ID:                     "e1",
		RealFightOfNightID:     strPtr(models.BonusNone),
		RealPerfOfNightFighter: strPtr(models.BonusNone),
	}
	assert.Equal(t, 0, ScoreBonusPick(bp, declined))

	matchingSentinel := &models.BonusPick{FightOfNightFightID: models.BonusNone, PerfOfNightFighterName: models.BonusNone}
	assert.Equal(t, 0, ScoreBonusPick(matchingSentinel, declined))

	half := &models.Event{
		ID:                     "e1",
		RealFightOfNightID:     strPtr(models.BonusNone),
		RealPerfOfNightFighter: strPtr("Alice Silva"),
	}
	assert.Equal(t, 20, ScoreBonusPick(bp, half))
}
