package models

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ReporterTool selects which external reporting tool produced a tournament's
// result payload. Parsers are registered per tool in the parsers package.
type ReporterTool int16

const (
	// ReporterToolWizards is Wizard's Event Reporter 4.x.
	ReporterToolWizards ReporterTool = 1
	// ReporterToolPokemon is Pokemon Reporter (NOT IMPLEMENTED).
	ReporterToolPokemon ReporterTool = 2
)

// Game is the game itself, not a league for it; one game can host any
// number of league seasons.
type Game struct {
	ID               string       `gorm:"primaryKey;type:uuid" json:"id"`
	Name             string       `gorm:"size:64;not null" json:"name"`
	Slug             string       `gorm:"uniqueIndex;not null" json:"slug"`
	IDName           string       `gorm:"size:64" json:"id_name"` // e.g. "DCI Number"
	PointsForWinning int          `gorm:"default:3" json:"points_for_winning"`
	PointsForLosing  int          `gorm:"default:0" json:"points_for_losing"`
	PointsForDraw    int          `gorm:"default:1" json:"points_for_draw"`
	ReporterTool     ReporterTool `gorm:"default:1" json:"reporter_tool"`

	Timestamps
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Slug == "" {
		g.Slug = slug.Make(g.Name)
	}
	return nil
}

// GameID is a player's identification number within one game (e.g. a DCI
// number). Unique per (game, number) so the same number cannot be entered twice.
type GameID struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	GameID   string `gorm:"not null;uniqueIndex:idx_game_number" json:"game_id"`
	PlayerID string `gorm:"not null;index" json:"player_id"`
	Number   string `gorm:"size:64;not null;uniqueIndex:idx_game_number;index" json:"number"`

	Game   Game   `json:"game,omitempty" gorm:"foreignKey:GameID"`
	Player Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

func (g *GameID) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
