package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateSubmission writes one completed refinement exchange. The record id
// is generated here; CreatedAt is filled in by gorm from the server clock.
func CreateSubmission(ctx context.Context, db *gorm.DB, visitorID, originalPrompt, refinedPrompt string, metadata map[string]any) (uuid.UUID, error) {
	var metadataJSON datatypes.JSON
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("could not marshal submission metadata: %w", err)
		}
		metadataJSON = datatypes.JSON(b)
	}

	submission := Submission{
		ID:             uuid.New(),
		VisitorID:      visitorID,
		OriginalPrompt: originalPrompt,
		RefinedPrompt:  refinedPrompt,
		Metadata:       metadataJSON,
	}

	if err := db.WithContext(ctx).Create(&submission).Error; err != nil {
		return uuid.Nil, fmt.Errorf("could not create submission: %w", err)
	}

	return submission.ID, nil
}

// RecentSubmissions returns the most recent submissions for a visitor,
// newest first, capped at limit.
func RecentSubmissions(ctx context.Context, db *gorm.DB, visitorID string, limit int) ([]Submission, error) {
	var submissions []Submission
	err := db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).
		Error
	if err != nil {
		return nil, fmt.Errorf("could not query submissions: %w", err)
	}
	return submissions, nil
}
