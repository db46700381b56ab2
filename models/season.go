package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// LeagueSeason is one run of the league. Each season starts over from zero.
type LeagueSeason struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	GameID    string    `gorm:"not null;index" json:"game_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	// Players may play at most this many counted matches per pair per season.
	MaxMatches int `gorm:"default:2" json:"max_matches"`

	WinRewardID  *string `gorm:"index" json:"win_reward_id,omitempty"`
	LoseRewardID *string `gorm:"index" json:"lose_reward_id,omitempty"`
	DrawRewardID *string `gorm:"index" json:"draw_reward_id,omitempty"`

	// Default category for off-tournament matches.
	DefaultMatchCategoryID *string `gorm:"index" json:"default_match_category_id,omitempty"`

	// Badge color index for the results listing (pair of background/text colors).
	BadgeColor int `gorm:"default:0" json:"badge_color"`

	Game                 Game           `json:"game,omitempty" gorm:"foreignKey:GameID"`
	WinReward            *RewardCategory `json:"win_reward,omitempty" gorm:"foreignKey:WinRewardID"`
	LoseReward           *RewardCategory `json:"lose_reward,omitempty" gorm:"foreignKey:LoseRewardID"`
	DrawReward           *RewardCategory `json:"draw_reward,omitempty" gorm:"foreignKey:DrawRewardID"`
	DefaultMatchCategory *EventCategory  `json:"default_match_category,omitempty" gorm:"foreignKey:DefaultMatchCategoryID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *LeagueSeason) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Slug == "" {
		s.Slug = slug.Make(s.Name)
	}
	return nil
}

// EnrollAllowed reports whether the season still accepts enrollments.
func (s *LeagueSeason) EnrollAllowed() bool {
	return s.EndDate.After(time.Now())
}

// LeagueEnroll links a player to a season. Unique per (player, season); the
// enroll date doubles as the cutoff used by identity resolution.
type LeagueEnroll struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID string    `gorm:"not null;uniqueIndex:idx_player_season" json:"player_id"`
	SeasonID string    `gorm:"not null;uniqueIndex:idx_player_season" json:"season_id"`
	Date     time.Time `gorm:"not null" json:"date"`

	// Whether the player already received their placement reward for the league.
	RewardGiven bool `gorm:"default:false" json:"reward_given"`

	Player Player       `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Season LeagueSeason `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
}

func (e *LeagueEnroll) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}

// EventCategory is the kind of event a match belongs to, e.g. casual, FNM, GPT.
type EventCategory struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name           string  `gorm:"size:64;not null" json:"name"`
	EnrollRewardID *string `gorm:"index" json:"enroll_reward_id,omitempty"`

	RewardMultiplier int `gorm:"default:1" json:"reward_multiplier"`

	// Number of players per match.
	MaxPlayers int `gorm:"default:2" json:"max_players"`

	EnrollReward *RewardCategory `json:"enroll_reward,omitempty" gorm:"foreignKey:EnrollRewardID"`
}

func (c *EventCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
