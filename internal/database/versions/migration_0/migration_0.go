package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Submission struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	VisitorID      string    `gorm:"index;not null"`
	OriginalPrompt string    `gorm:"not null"`
	RefinedPrompt  string    `gorm:"not null"`
	CreatedAt      time.Time
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Submission{})
}
