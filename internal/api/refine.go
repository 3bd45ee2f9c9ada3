package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"refine-backend/internal/database"
	"refine-backend/internal/refine"
	"refine-backend/pkg/api"
)

// historyLimit caps how many past submissions the history endpoint returns
// per visitor.
const historyLimit = 5

type RefineService struct {
	db      *gorm.DB
	refiner *refine.Refiner
}

func NewRefineService(db *gorm.DB, refiner *refine.Refiner) *RefineService {
	return &RefineService{
		db:      db,
		refiner: refiner,
	}
}

func (s *RefineService) AddRoutes(r chi.Router) {
	r.Post("/refine", StreamHandler(s.Refine))
	r.Post("/refine/sync", RestHandler(s.RefineSync))
	r.Get("/history", RestHandler(s.GetHistory))
}

func (s *RefineService) Refine(r *http.Request) (refine.Stream, error) {
	req, err := ParseRequest[api.RefineRequest](r)
	if err != nil {
		return nil, err
	}

	stream, err := s.refiner.Refine(r.Context(), req.Prompt, req.VisitorID)
	if err != nil {
		// the relay only fails eagerly on validation
		return nil, CodedError(http.StatusBadRequest, err)
	}

	return stream, nil
}

func (s *RefineService) RefineSync(r *http.Request) (any, error) {
	req, err := ParseRequest[api.RefineRequest](r)
	if err != nil {
		return nil, err
	}

	refined, submissionID, err := s.refiner.RefineSync(r.Context(), req.Prompt, req.VisitorID)
	if err != nil {
		if errors.Is(err, refine.ErrPromptRequired) || errors.Is(err, refine.ErrVisitorIDRequired) {
			return nil, CodedError(http.StatusBadRequest, err)
		}
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.RefineResponse{RefinedPrompt: refined, SubmissionID: submissionID.String()}, nil
}

func (s *RefineService) GetHistory(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.HistoryQuery](r)
	if err != nil {
		return nil, err
	}

	if params.VisitorID == "" {
		return nil, CodedError(http.StatusBadRequest, refine.ErrVisitorIDRequired)
	}

	submissions, err := database.RecentSubmissions(r.Context(), s.db, params.VisitorID, historyLimit)
	if err != nil {
		slog.Error("error fetching history", "visitor_id", params.VisitorID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "Failed to fetch history")
	}

	resp := api.HistoryResponse{Submissions: make([]api.Submission, 0, len(submissions))}
	for _, submission := range submissions {
		resp.Submissions = append(resp.Submissions, api.Submission{
			ID:             submission.ID.String(),
			VisitorID:      submission.VisitorID,
			OriginalPrompt: submission.OriginalPrompt,
			RefinedPrompt:  submission.RefinedPrompt,
			CreatedAt:      submission.CreatedAt,
		})
	}

	return resp, nil
}
