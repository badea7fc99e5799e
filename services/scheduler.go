package services

import (
	"log"
	"time"

	"octagon-oracle/models"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusScheduler moves events past their picks deadline from upcoming
// to live once a minute. Completing an event stays an explicit admin action;
// the scheduler never touches results or points.
func (s *EventService) StartStatusScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var events []models.Event
			now := time.Now()
			err := s.DB.Where("status = ? AND picks_deadline <= ?", models.EventStatusUpcoming, now).
				Find(&events).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, e := range events {
				e.Status = models.EventStatusLive
				if err := s.DB.Save(&e).Error; err != nil {
					log.Printf("[Scheduler] Failed to mark event %s live: %v", e.ID, err)
				} else {
					log.Printf("Picks closed, event now live: %s", e.Name)
				}
			}
		}),
	)
}
