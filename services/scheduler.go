// services/scheduler.go
package services

import (
	"errors"
	"log"
	"time"

	"league-system/models"
	"league-system/parsers"

	"github.com/go-co-op/gocron/v2"
)

// StartImportScheduler retries unparsed tournaments in the background.
// Payloads stuck on an unsupported tool stay queued until a parser ships.
func (s *TournamentService) StartImportScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 5 minutes: retry tournaments with a payload that never parsed
	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			var tournaments []models.Tournament
			err := s.DB.Where("parsed = ? AND result <> ''", false).
				Find(&tournaments).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for i := range tournaments {
				t := &tournaments[i]
				if err := s.Import(t, false); err != nil {
					if errors.Is(err, parsers.ErrUnsupportedTool) {
						continue
					}
					log.Printf("[Scheduler] Failed to import tournament %s: %v", t.ID, err)
				} else {
					log.Printf("✅ Imported tournament results: %s", t.ID)
				}
			}
		}),
	)
}
