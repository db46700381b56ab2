package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardCategory describes what a reward is for: booster purchase, tournament
// entry, match won, match lost. Negative values pay for promo pickups.
type RewardCategory struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Name  string `gorm:"size:64;not null;index" json:"name"`
	Value int    `gorm:"not null" json:"value"`

	// Eternal rewards do not disappear over time.
	Eternal bool `gorm:"default:false" json:"eternal"`
}

func (c *RewardCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Reward is a single ledger posting: stamps punched into the card or spent on
// promos. Value is consumed downward toward zero by later negative postings;
// OrigValue keeps the amount as posted and never changes.
type Reward struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID   string    `gorm:"not null;index" json:"player_id"`
	CategoryID string    `gorm:"not null;index" json:"category_id"`
	SeasonID   string    `gorm:"not null;index" json:"season_id"`
	Value      int       `gorm:"not null" json:"value"`
	OrigValue  int       `gorm:"not null" json:"orig_value"`
	When       time.Time `gorm:"not null;index" json:"when"`
	Comment    string    `gorm:"type:text" json:"comment"`

	Player   Player         `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Category RewardCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Season   LeagueSeason   `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// PromoItem is a promo a player can pick up by spending collected rewards.
// The linked category carries the (negative) cost of the pickup.
type PromoItem struct {
	ID               string `gorm:"primaryKey;type:uuid" json:"id"`
	Name             string `gorm:"size:30;not null" json:"name"`
	RewardCategoryID string `gorm:"not null;index" json:"reward_category_id"`
	Desc             string `gorm:"type:text" json:"desc"`

	RewardCategory RewardCategory `json:"reward_category,omitempty" gorm:"foreignKey:RewardCategoryID"`
}

func (p *PromoItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
