package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"league-system/models"
	"league-system/parsers"

	"gorm.io/gorm"
)

// TournamentService ingests reporting-tool exports: it resolves reported
// identities, pays enrollment rewards and records every pairing through the
// match recorder.
type TournamentService struct {
	DB       *gorm.DB
	resolver *ResolverService
	league   *LeagueService
	rewards  *RewardService
}

func NewTournamentService(db *gorm.DB, resolver *ResolverService, league *LeagueService, rewards *RewardService) *TournamentService {
	return &TournamentService{DB: db, resolver: resolver, league: league, rewards: rewards}
}

// Save persists the tournament. On the first save of a fresh payload it
// copies the reporter tool from the season's game and runs the import.
// An unsupported tool is swallowed here: the tournament is kept with
// Parsed=false so the payload can be retried once a parser exists.
func (s *TournamentService) Save(t *models.Tournament) error {
	fresh := !(t.ReporterTool != 0 && t.Result != "")
	if fresh {
		var season models.LeagueSeason
		if err := s.DB.Preload("Game").First(&season, "id = ?", t.SeasonID).Error; err != nil {
			return fmt.Errorf("tournament season: %w", err)
		}
		t.ReporterTool = season.Game.ReporterTool
	}

	// The row goes in first so imported matches can reference it.
	if err := s.DB.Save(t).Error; err != nil {
		return fmt.Errorf("save tournament: %w", err)
	}

	if fresh && t.ReporterTool != 0 && !t.Parsed {
		if err := s.Import(t, false); err != nil {
			if errors.Is(err, parsers.ErrUnsupportedTool) {
				log.Printf("[Tournament] results for %s not yet parseable: %v", t.ID, err)
				return nil
			}
			return err
		}
	}
	return nil
}

// Import parses the tournament's payload and records its contents. Guarded by
// the Parsed flag: an already-imported tournament is a no-op. All writes of
// one import run in a single transaction; Parsed flips to true only when the
// whole import succeeded, so a failed import stays re-importable.
func (s *TournamentService) Import(t *models.Tournament, skipEnroll bool) error {
	if t.Parsed {
		return nil
	}

	parser, err := parsers.ForTool(t.ReporterTool)
	if err != nil {
		return err
	}
	rounds, err := parser.Parse(t.Result)
	if err != nil {
		return err
	}

	var season models.LeagueSeason
	if err := s.DB.Preload("Game").First(&season, "id = ?", t.SeasonID).Error; err != nil {
		return fmt.Errorf("tournament season: %w", err)
	}
	var category models.EventCategory
	if err := s.DB.First(&category, "id = ?", t.CategoryID).Error; err != nil {
		return fmt.Errorf("tournament category: %w", err)
	}

	tStart := rounds[0].Date
	tEnd := rounds[len(rounds)-1].Date.Add(time.Hour) // approximate end of the last round

	if t.StartDate == nil {
		t.StartDate = &tStart
	}
	if t.EndDate == nil {
		t.EndDate = &tEnd
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if !skipEnroll {
			if err := s.payEnrollRewards(tx, t, &season, &category, rounds, tStart); err != nil {
				return err
			}
		}

		for _, round := range rounds {
			for _, reported := range round.Matches {
				if reported.OpponentID == "" {
					// Bye, nothing to record.
					log.Printf("[Tournament] %s got a bye", reported.PersonID)
					continue
				}
				winner, err := s.resolver.resolve(tx, reported.PersonID, &season.Game, &season, tStart)
				if err != nil {
					if errors.Is(err, ErrPlayerNotFound) {
						log.Printf("[Tournament] skipping match %s vs %s: %v", reported.PersonID, reported.OpponentID, err)
						continue
					}
					return err
				}
				loser, err := s.resolver.resolve(tx, reported.OpponentID, &season.Game, &season, tStart)
				if err != nil {
					if errors.Is(err, ErrPlayerNotFound) {
						log.Printf("[Tournament] skipping match %s vs %s: %v", reported.PersonID, reported.OpponentID, err)
						continue
					}
					return err
				}
				_, err = s.league.reportMatch(tx, &season, ReportMatchParams{
					Winner:     winner,
					Loser:      loser,
					Won:        reported.Wins,
					Lost:       reported.Losses,
					When:       round.Date,
					Category:   &category,
					Tournament: t,
				})
				if err != nil {
					return err
				}
			}
		}

		t.Parsed = true
		updates := map[string]any{
			"parsed":     true,
			"start_date": t.StartDate,
			"end_date":   t.EndDate,
		}
		if err := tx.Model(&models.Tournament{}).Where("id = ?", t.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("mark tournament parsed: %w", err)
		}
		return nil
	})
}

// payEnrollRewards rewards every resolvable reported person for showing up.
// Players unknown to the system (or enrolled after the tournament started)
// are skipped without failing the import.
func (s *TournamentService) payEnrollRewards(tx *gorm.DB, t *models.Tournament, season *models.LeagueSeason,
	category *models.EventCategory, rounds []parsers.Round, cutoff time.Time) error {

	var enrollReward *models.RewardCategory
	if category.EnrollRewardID != nil {
		enrollReward = &models.RewardCategory{}
		if err := tx.First(enrollReward, "id = ?", *category.EnrollRewardID).Error; err != nil {
			return fmt.Errorf("enroll reward category: %w", err)
		}
	}

	for _, round := range rounds {
		for _, person := range round.People {
			player, err := s.resolver.resolve(tx, person.ID, &season.Game, season, cutoff)
			if err != nil {
				if errors.Is(err, ErrPlayerNotFound) {
					log.Printf("[Tournament] person %s not found in system", person.ID)
					continue
				}
				return err
			}
			if enrollReward == nil {
				continue
			}
			value := enrollReward.Value * category.RewardMultiplier
			_, err = s.rewards.post(tx, player, enrollReward, season, PostOptions{
				Value:   &value,
				Comment: "[auto] tournament entry",
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
