package services

import (
	"octagon-oracle/models"

	"gorm.io/gorm"
)

// RankingService computes leaderboards on demand. Both rankings are pure read
// queries over stored points and settled results; nothing is cached or
// accumulated, and users with zero picks show up with zero totals.
type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

// GeneralRankingEntry is one row of the all-time points leaderboard.
type GeneralRankingEntry struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
}

// AccuracyRankingEntry adds per-tier hit counters to the point total.
type AccuracyRankingEntry struct {
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	TotalPoints         int    `json:"total_points"`
	PicksMade           int    `json:"picks_made"`
	CorrectWinner       int    `json:"correct_winner"`
	CorrectMethod       int    `json:"correct_winner_method"`
	PerfectPicks        int    `json:"perfect_picks"`
	CorrectFightOfNight int    `json:"correct_fight_of_night"`
	CorrectPerfOfNight  int    `json:"correct_perf_of_night"`
}

// GeneralRanking sums every pick and bonus-pick point ever awarded per
// non-admin user, descending by total with ties broken by username.
func (s *RankingService) GeneralRanking() ([]GeneralRankingEntry, error) {
	var entries []GeneralRankingEntry
	err := s.DB.Raw(`
		SELECT u.id AS user_id,
		       u.username,
		       COALESCE(p.points, 0) + COALESCE(b.points, 0) AS total_points
		FROM users u
		LEFT JOIN (
			SELECT user_id, SUM(points_awarded) AS points
			FROM picks GROUP BY user_id
		) p ON p.user_id = u.id
		LEFT JOIN (
			SELECT user_id, SUM(points_awarded) AS points
			FROM bonus_picks GROUP BY user_id
		) b ON b.user_id = u.id
		WHERE u.is_admin = FALSE
		ORDER BY total_points DESC, u.username ASC
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AccuracyRanking joins picks against settled fight results and bonus picks
// against settled bonus categories, counting how deep into the cascade each
// pick got. Same ordering as the general ranking.
func (s *RankingService) AccuracyRanking() ([]AccuracyRankingEntry, error) {
	var entries []AccuracyRankingEntry
	err := s.DB.Raw(`
		SELECT u.id AS user_id,
		       u.username,
		       COALESCE(ps.total_points, 0) + COALESCE(bs.bonus_points, 0) AS total_points,
		       COALESCE(ps.picks_made, 0) AS picks_made,
		       COALESCE(ps.correct_winner, 0) AS correct_winner,
		       COALESCE(ps.correct_method, 0) AS correct_method,
		       COALESCE(ps.perfect_picks, 0) AS perfect_picks,
		       COALESCE(bs.correct_fotn, 0) AS correct_fight_of_night,
		       COALESCE(bs.correct_potn, 0) AS correct_perf_of_night
		FROM users u
		LEFT JOIN (
			SELECT p.user_id,
			       SUM(p.points_awarded) AS total_points,
			       COUNT(p.id) AS picks_made,
			       SUM(CASE WHEN f.winner_name IS NOT NULL
			                 AND p.predicted_winner_name = f.winner_name
			            THEN 1 ELSE 0 END) AS correct_winner,
			       SUM(CASE WHEN f.winner_name IS NOT NULL
			                 AND p.predicted_winner_name = f.winner_name
			                 AND p.predicted_method = f.result_method
			            THEN 1 ELSE 0 END) AS correct_method,
			       SUM(CASE WHEN f.winner_name IS NOT NULL
			                 AND p.predicted_winner_name = f.winner_name
			                 AND p.predicted_method = f.result_method
			                 AND p.predicted_details = f.result_details
			            THEN 1 ELSE 0 END) AS perfect_picks
			FROM picks p
			INNER JOIN fights f ON f.id = p.fight_id
			GROUP BY p.user_id
		) ps ON ps.user_id = u.id
		LEFT JOIN (
			SELECT bp.user_id,
			       SUM(bp.points_awarded) AS bonus_points,
			       SUM(CASE WHEN e.real_fight_of_night_id IS NOT NULL
			                 AND e.real_fight_of_night_id <> ?
			                 AND bp.fight_of_night_fight_id = e.real_fight_of_night_id
			            THEN 1 ELSE 0 END) AS correct_fotn,
			       SUM(CASE WHEN e.real_perf_of_night_fighter IS NOT NULL
			                 AND e.real_perf_of_night_fighter <> ?
			                 AND bp.perf_of_night_fighter_name = e.real_perf_of_night_fighter
			            THEN 1 ELSE 0 END) AS correct_potn
			FROM bonus_picks bp
			INNER JOIN events e ON e.id = bp.event_id
			GROUP BY bp.user_id
		) bs ON bs.user_id = u.id
		WHERE u.is_admin = FALSE
		ORDER BY total_points DESC, u.username ASC
	`, models.BonusNone, models.BonusNone).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
