package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tournament holds one exported result payload from a reporting tool plus the
// reward wiring needed to translate its outcomes, since which categories pay for
// which achievements cannot be derived from the payload itself.
type Tournament struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name       *string    `gorm:"size:50" json:"name,omitempty"`
	SeasonID   string     `gorm:"not null;index" json:"season_id"`
	CategoryID string     `gorm:"not null;index" json:"category_id"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`

	// Raw export from the reporting tool, kept verbatim for re-imports.
	Result string `gorm:"type:text" json:"-"`

	// Copied from the season's game on first save so later game edits do not
	// change how an already-stored payload is interpreted.
	ReporterTool ReporterTool `json:"reporter_tool"`

	// Whether the payload has been successfully parsed and imported.
	Parsed bool `gorm:"default:false" json:"parsed"`

	Season   LeagueSeason  `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
	Category EventCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (t *Tournament) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
