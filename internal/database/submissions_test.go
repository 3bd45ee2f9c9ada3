package database

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestCreateSubmission(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := CreateSubmission(ctx, db, "visitor-1", "a todo app", "## A todo app", map[string]any{"model": "gpt-4o-mini"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first)

	second, err := CreateSubmission(ctx, db, "visitor-1", "a todo app", "## A todo app", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	var submission Submission
	require.NoError(t, db.First(&submission, "id = ?", first).Error)
	assert.Equal(t, "visitor-1", submission.VisitorID)
	assert.Equal(t, "a todo app", submission.OriginalPrompt)
	assert.Equal(t, "## A todo app", submission.RefinedPrompt)
	assert.JSONEq(t, `{"model": "gpt-4o-mini"}`, string(submission.Metadata))
	assert.False(t, submission.CreatedAt.IsZero())
}

func TestRecentSubmissions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&Submission{
			ID:             uuid.New(),
			VisitorID:      "visitor-1",
			OriginalPrompt: fmt.Sprintf("idea %d", i),
			RefinedPrompt:  fmt.Sprintf("refined %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	require.NoError(t, db.Create(&Submission{
		ID:             uuid.New(),
		VisitorID:      "visitor-2",
		OriginalPrompt: "someone else's idea",
		RefinedPrompt:  "refined",
		CreatedAt:      base.Add(time.Hour),
	}).Error)

	submissions, err := RecentSubmissions(ctx, db, "visitor-1", 5)
	require.NoError(t, err)
	require.Len(t, submissions, 5)

	for i, s := range submissions {
		assert.Equal(t, "visitor-1", s.VisitorID)
		if i > 0 {
			assert.False(t, s.CreatedAt.After(submissions[i-1].CreatedAt), "results must be newest first")
		}
	}
	assert.Equal(t, "idea 6", submissions[0].OriginalPrompt)

	submissions, err = RecentSubmissions(ctx, db, "unknown-visitor", 5)
	require.NoError(t, err)
	assert.Empty(t, submissions)
}
