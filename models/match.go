package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match is a single league match. Every reported match is stored; matches over
// the per-pair cap are kept too but flagged Ignore so they stay auditable
// without affecting points.
type Match struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	SeasonID     string    `gorm:"not null;index" json:"season_id"`
	CategoryID   *string   `gorm:"index" json:"category_id,omitempty"`
	TournamentID *string   `gorm:"index" json:"tournament_id,omitempty"` // nil = off-tournament match
	When         time.Time `gorm:"not null" json:"when"`
	Ignore       bool      `gorm:"default:false;index" json:"ignore"`

	Season     LeagueSeason   `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
	Category   *EventCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tournament *Tournament    `json:"tournament,omitempty" gorm:"foreignKey:TournamentID"`
	Results    []MatchResult  `json:"results,omitempty" gorm:"foreignKey:MatchID"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MatchResult is one side's view of a match. Splitting the match this way
// keeps team formats (e.g. 2HG) a frontend concern.
type MatchResult struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID  string `gorm:"not null;index" json:"match_id"`
	PlayerID string `gorm:"not null;index" json:"player_id"`
	GamesWon int    `gorm:"not null" json:"games_won"`

	// Derived from the game's point configuration, never set by callers.
	Points int `gorm:"not null;default:0" json:"points"`

	RewardID *string `gorm:"index" json:"reward_id,omitempty"`

	Match  Match   `json:"match,omitempty" gorm:"foreignKey:MatchID"`
	Player Player  `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Reward *Reward `json:"reward,omitempty" gorm:"foreignKey:RewardID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (r *MatchResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
