package services

import "octagon-oracle/models"

// Point values for the cascading fight-pick rule and the two bonus categories.
const (
	WinnerPoints  = 20
	MethodPoints  = 15
	DetailsPoints = 10

	PerfectPickPoints = WinnerPoints + MethodPoints + DetailsPoints

	BonusCategoryPoints = 20
)

// ScorePick computes the points a pick earns against the fight's recorded
// result. The rule cascades in strict order, each stage gating the next:
// wrong (or absent) winner scores nothing; a correct winner earns 20; a
// correct method on top of that earns 15 more; correct details complete the
// perfect pick at 45. Comparison is exact string equality on every stage;
// details in particular stay opaque (round number or decision sub-type).
//
// Pure function: no I/O, and identical inputs always produce the same total,
// which is what makes re-scoring safe to repeat.
func ScorePick(pick *models.Pick, fight *models.Fight) int {
	if fight == nil || !fight.Settled() {
		return 0
	}
	if pick.PredictedWinnerName != *fight.WinnerName {
		return 0
	}
	total := WinnerPoints
	if fight.ResultMethod == nil || pick.PredictedMethod != *fight.ResultMethod {
		return total
	}
	total += MethodPoints
	if fight.ResultDetails == nil || pick.PredictedDetails != *fight.ResultDetails {
		return total
	}
	return total + DetailsPoints
}

// ScoreBonusPick computes bonus points against the event's bonus-result
// fields. Unlike the fight rule the two categories are independent: 20 for a
// correct fight-of-the-night, 20 for a correct performance-of-the-night,
// 40 maximum. A category only scores once its real value is set and is not
// the BonusNone sentinel.
func ScoreBonusPick(bp *models.BonusPick, event *models.Event) int {
	if event == nil {
		return 0
	}
	total := 0
	if event.RealFightOfNightID != nil && *event.RealFightOfNightID != models.BonusNone &&
		bp.FightOfNightFightID == *event.RealFightOfNightID {
		total += BonusCategoryPoints
	}
	if event.RealPerfOfNightFighter != nil && *event.RealPerfOfNightFighter != models.BonusNone &&
		bp.PerfOfNightFighterName == *event.RealPerfOfNightFighter {
		total += BonusCategoryPoints
	}
	return total
}
