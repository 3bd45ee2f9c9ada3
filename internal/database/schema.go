package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission is an immutable record of one completed refinement: it is
// written exactly once, after the generation stream finishes, and only
// ever read afterwards.
type Submission struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Opaque client-held correlation key. Not validated beyond being
	// non-empty; two browsers could share one.
	VisitorID string `gorm:"index;not null"`

	OriginalPrompt string `gorm:"not null"`
	RefinedPrompt  string `gorm:"not null"`

	CreatedAt time.Time

	// Generation settings used for this submission, e.g.
	// {"model": "gpt-4o-mini", "temperature": 0.7}
	Metadata datatypes.JSON
}
