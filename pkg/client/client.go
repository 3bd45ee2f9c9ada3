// Package client is a small Go client for the refine backend API.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"refine-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Refine streams a refinement, invoking onContent for each fragment as it
// arrives. It returns the accumulated text and the id of the persisted
// submission.
func (c *Client) Refine(ctx context.Context, prompt, visitorID string, onContent func(fragment string)) (string, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.RefineRequest{Prompt: prompt, VisitorID: visitorID}).
		SetDoNotParseResponse(true).
		Post("/api/refine")
	if err != nil {
		return "", "", fmt.Errorf("refine request failed: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		var apiErr api.ErrorResponse
		if err := json.NewDecoder(body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return "", "", fmt.Errorf("refine request failed with status %d", resp.StatusCode())
		}
		return "", "", fmt.Errorf("refine request failed: %s", apiErr.Error)
	}

	var refined string
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk api.StreamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", "", fmt.Errorf("invalid stream chunk: %w", err)
		}

		switch {
		case chunk.Error != "":
			return "", "", fmt.Errorf("refinement failed: %s", chunk.Error)
		case chunk.Done:
			return refined, chunk.SubmissionID, nil
		case chunk.Content != "":
			refined += chunk.Content
			if onContent != nil {
				onContent(chunk.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("error reading stream: %w", err)
	}

	return "", "", fmt.Errorf("stream ended without a terminal event")
}

// RefineSync uses the non-streaming fallback endpoint.
func (c *Client) RefineSync(ctx context.Context, prompt, visitorID string) (api.RefineResponse, error) {
	var result api.RefineResponse
	var apiErr api.ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(api.RefineRequest{Prompt: prompt, VisitorID: visitorID}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/refine/sync")
	if err != nil {
		return api.RefineResponse{}, fmt.Errorf("refine request failed: %w", err)
	}
	if resp.IsError() {
		return api.RefineResponse{}, fmt.Errorf("refine request failed: %s", apiErr.Error)
	}

	return result, nil
}

// History returns the visitor's most recent submissions, newest first.
func (c *Client) History(ctx context.Context, visitorID string) ([]api.Submission, error) {
	var result api.HistoryResponse
	var apiErr api.ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("visitorId", visitorID).
		SetResult(&result).
		SetError(&apiErr).
		Get("/api/history")
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("history request failed: %s", apiErr.Error)
	}

	return result.Submissions, nil
}
