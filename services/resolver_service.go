package services

import (
	"errors"
	"fmt"
	"time"

	"league-system/models"

	"gorm.io/gorm"
)

// ErrPlayerNotFound is returned when an external identifier resolves to zero
// or more than one enrolled player.
var ErrPlayerNotFound = errors.New("player not found")

// ResolverService maps a reporting tool's per-game player identifier onto a
// local player record. A match requires the player to hold the game ID and to
// have enrolled in the season at or before the cutoff.
type ResolverService struct {
	DB *gorm.DB
}

func NewResolverService(db *gorm.DB) *ResolverService {
	return &ResolverService{DB: db}
}

// Resolve looks up the player owning `externalID` for the game who enrolled
// in the season no later than cutoff.
func (s *ResolverService) Resolve(externalID string, game *models.Game, season *models.LeagueSeason, cutoff time.Time) (*models.Player, error) {
	return s.resolve(s.DB, externalID, game, season, cutoff)
}

func (s *ResolverService) resolve(tx *gorm.DB, externalID string, game *models.Game, season *models.LeagueSeason, cutoff time.Time) (*models.Player, error) {
	var players []models.Player
	err := tx.
		Joins("JOIN game_ids ON game_ids.player_id = players.id AND game_ids.game_id = ? AND game_ids.number = ?",
			game.ID, externalID).
		Joins("JOIN league_enrolls ON league_enrolls.player_id = players.id AND league_enrolls.season_id = ? AND league_enrolls.date <= ?",
			season.ID, cutoff).
		Limit(2).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", externalID, err)
	}
	if len(players) != 1 {
		return nil, fmt.Errorf("%w: id %s for game %s (matches: %d)", ErrPlayerNotFound, externalID, game.Slug, len(players))
	}
	return &players[0], nil
}
