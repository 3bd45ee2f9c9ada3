package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"refine-backend/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunks(t *testing.T, w http.ResponseWriter, chunks []api.StreamChunk) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	encoder := json.NewEncoder(w)
	for _, chunk := range chunks {
		require.NoError(t, encoder.Encode(chunk))
	}
}

func TestRefineStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/refine", r.URL.Path)

		var req api.RefineRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a todo app", req.Prompt)
		assert.Equal(t, "abc123", req.VisitorID)

		writeChunks(t, w, []api.StreamChunk{
			{Content: "## A todo app\n"},
			{Content: "with offline sync"},
			{Done: true, SubmissionID: "sub-1"},
		})
	}))
	defer server.Close()

	var fragments []string
	refined, submissionID, err := New(server.URL).Refine(context.Background(), "a todo app", "abc123", func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err)
	assert.Equal(t, "## A todo app\nwith offline sync", refined)
	assert.Equal(t, "sub-1", submissionID)
	assert.Equal(t, []string{"## A todo app\n", "with offline sync"}, fragments)
}

func TestRefineValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Prompt is required"})
	}))
	defer server.Close()

	_, _, err := New(server.URL).Refine(context.Background(), "", "abc123", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prompt is required")
}

func TestRefineInStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChunks(t, w, []api.StreamChunk{
			{Content: "partial "},
			{Error: "An error occurred during generation"},
		})
	}))
	defer server.Close()

	_, _, err := New(server.URL).Refine(context.Background(), "a todo app", "abc123", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "An error occurred during generation")
}

func TestRefineSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/refine/sync", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.RefineResponse{RefinedPrompt: "a polished prompt", SubmissionID: "sub-2"})
	}))
	defer server.Close()

	resp, err := New(server.URL).RefineSync(context.Background(), "a todo app", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "a polished prompt", resp.RefinedPrompt)
	assert.Equal(t, "sub-2", resp.SubmissionID)
}

func TestHistory(t *testing.T) {
	created := time.Now().UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/history", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("visitorId"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.HistoryResponse{Submissions: []api.Submission{
			{ID: "sub-1", VisitorID: "abc123", OriginalPrompt: "a todo app", RefinedPrompt: "## A todo app", CreatedAt: created},
		}})
	}))
	defer server.Close()

	submissions, err := New(server.URL).History(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "a todo app", submissions[0].OriginalPrompt)
	assert.True(t, created.Equal(submissions[0].CreatedAt))
}

func TestHistoryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Failed to fetch history"})
	}))
	defer server.Close()

	_, err := New(server.URL).History(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch history")
}
