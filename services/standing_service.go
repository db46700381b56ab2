package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"league-system/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ErrPlayerNotRanked is returned by Rank for players outside the season's
// standings (not enrolled at all).
var ErrPlayerNotRanked = errors.New("player not ranked in season")

// PlayerRank is one row of the season standings.
type PlayerRank struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// StandingService derives season standings from stored match results.
// Standings are never stored.
type StandingService struct {
	DB       *gorm.DB
	collator *collate.Collator
}

func NewStandingService(db *gorm.DB) *StandingService {
	return &StandingService{
		DB:       db,
		collator: collate.New(language.Und),
	}
}

// Ranks returns the season standings: players with a positive non-ignored
// point sum first, descending (username as the stable tiebreak), then every
// remaining enrolled player at zero points ordered by surname.
func (s *StandingService) Ranks(season *models.LeagueSeason) ([]PlayerRank, error) {
	var scored []PlayerRank
	err := s.DB.Model(&models.MatchResult{}).
		Select("players.username AS username, SUM(match_results.points) AS points").
		Joins("JOIN matches ON matches.id = match_results.match_id AND matches.season_id = ? AND matches.ignore = ?",
			season.ID, false).
		Joins("JOIN players ON players.id = match_results.player_id").
		Joins("JOIN league_enrolls ON league_enrolls.player_id = players.id AND league_enrolls.season_id = ?",
			season.ID).
		Group("players.id, players.username").
		Having("SUM(match_results.points) > 0").
		Order("points DESC, username ASC").
		Scan(&scored).Error
	if err != nil {
		return nil, fmt.Errorf("scored standings: %w", err)
	}

	seen := make(map[string]bool, len(scored))
	for _, row := range scored {
		seen[row.Username] = true
	}

	var enrolled []models.Player
	err = s.DB.
		Joins("JOIN league_enrolls ON league_enrolls.player_id = players.id AND league_enrolls.season_id = ?",
			season.ID).
		Find(&enrolled).Error
	if err != nil {
		return nil, fmt.Errorf("enrolled players: %w", err)
	}

	var pointless []models.Player
	for _, player := range enrolled {
		if !seen[player.Username] {
			pointless = append(pointless, player)
		}
	}
	sort.SliceStable(pointless, func(i, j int) bool {
		if c := s.collator.CompareString(pointless[i].Surname(), pointless[j].Surname()); c != 0 {
			return c < 0
		}
		return pointless[i].Username < pointless[j].Username
	})

	ranks := scored
	for _, player := range pointless {
		ranks = append(ranks, PlayerRank{Username: player.Username, Points: 0})
	}
	return ranks, nil
}

// Rank returns the player's 1-based position in the season standings.
func (s *StandingService) Rank(season *models.LeagueSeason, player *models.Player) (int, error) {
	ranks, err := s.Ranks(season)
	if err != nil {
		return 0, err
	}
	for i, row := range ranks {
		if row.Username == player.Username {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %s", ErrPlayerNotRanked, player.Username, season.Slug)
}

// PlayerPoints sums the player's points over the season's non-ignored
// matches. Players without any counted result score zero.
func (s *StandingService) PlayerPoints(season *models.LeagueSeason, player *models.Player) (int, error) {
	var points sql.NullInt64
	err := s.DB.Model(&models.MatchResult{}).
		Select("SUM(match_results.points)").
		Joins("JOIN matches ON matches.id = match_results.match_id AND matches.season_id = ? AND matches.ignore = ?",
			season.ID, false).
		Where("match_results.player_id = ?", player.ID).
		Scan(&points).Error
	if err != nil {
		return 0, fmt.Errorf("player points: %w", err)
	}
	return int(points.Int64), nil
}
