package refine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"refine-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validation errors, surfaced before any upstream call is made.
var (
	ErrPromptRequired    = errors.New("Prompt is required")
	ErrVisitorIDRequired = errors.New("Visitor ID is required")
)

// Failures surfaced to the caller mid-stream. The underlying cause is
// logged, never exposed.
var (
	ErrGeneration  = errors.New("An error occurred during generation")
	ErrPersistence = errors.New("Failed to save submission")
)

// Event is one element of a refinement stream: either a text fragment
// (Content non-empty) or the terminal completion carrying the id of the
// persisted submission.
type Event struct {
	Content      string
	Done         bool
	SubmissionID uuid.UUID
}

// Stream is a lazy, single-use sequence of refinement events. Iteration
// ends after the first terminal element: a Done event or a non-nil error.
type Stream func(yield func(Event, error) bool)

// Refiner relays a streaming completion from the generator to the caller
// and persists the full exchange once the stream completes naturally.
type Refiner struct {
	db        *gorm.DB
	generator Generator
	settings  Settings
}

func NewRefiner(db *gorm.DB, generator Generator, settings Settings) *Refiner {
	return &Refiner{
		db:        db,
		generator: generator,
		settings:  settings,
	}
}

// Refine validates its inputs eagerly and returns the event stream. The
// stream forwards each fragment as soon as it arrives; the submission is
// written exactly once, after the last fragment and before the Done event.
// A failed or interrupted generation persists nothing.
func (r *Refiner) Refine(ctx context.Context, originalPrompt, visitorID string) (Stream, error) {
	if originalPrompt == "" {
		return nil, ErrPromptRequired
	}
	if visitorID == "" {
		return nil, ErrVisitorIDRequired
	}

	return func(yield func(Event, error) bool) {
		var refined strings.Builder

		for fragment, err := range r.generator.Stream(ctx, userPrompt(originalPrompt)) {
			if err != nil {
				if ctx.Err() != nil {
					// caller went away; nobody is listening and the
					// partial text must not be persisted
					return
				}
				slog.Error("generation stream failed", "error", err)
				yield(Event{}, ErrGeneration)
				return
			}

			refined.WriteString(fragment)
			if !yield(Event{Content: fragment}, nil) {
				return
			}
		}

		if ctx.Err() != nil {
			return
		}

		submissionID, err := database.CreateSubmission(ctx, r.db, visitorID, originalPrompt, refined.String(), r.metadata())
		if err != nil {
			slog.Error("error persisting submission", "visitor_id", visitorID, "error", err)
			yield(Event{}, ErrPersistence)
			return
		}

		yield(Event{Done: true, SubmissionID: submissionID}, nil)
	}, nil
}

// RefineSync is the non-streaming fallback: same validation, generation
// parameters, and persistence rules, returning the full text at once.
func (r *Refiner) RefineSync(ctx context.Context, originalPrompt, visitorID string) (string, uuid.UUID, error) {
	if originalPrompt == "" {
		return "", uuid.Nil, ErrPromptRequired
	}
	if visitorID == "" {
		return "", uuid.Nil, ErrVisitorIDRequired
	}

	refined, err := r.generator.Complete(ctx, userPrompt(originalPrompt))
	if err != nil {
		slog.Error("generation failed", "error", err)
		return "", uuid.Nil, ErrGeneration
	}

	submissionID, err := database.CreateSubmission(ctx, r.db, visitorID, originalPrompt, refined, r.metadata())
	if err != nil {
		slog.Error("error persisting submission", "visitor_id", visitorID, "error", err)
		return "", uuid.Nil, ErrPersistence
	}

	return refined, submissionID, nil
}

func (r *Refiner) metadata() map[string]any {
	return map[string]any{
		"model":       r.settings.Model,
		"temperature": r.settings.Temperature,
	}
}
