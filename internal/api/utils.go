package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"refine-backend/internal/refine"
	"refine-backend/pkg/api"

	"github.com/gorilla/schema"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&data, r.Form); err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	return data, nil
}

// writeError converts any handler error into a JSON {"error": ...} body.
// Non coded errors are treated as internal and get a 500.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var cerr *codedError
	if errors.As(err, &cerr) {
		code = cerr.code
	}

	if code == http.StatusInternalServerError {
		slog.Error("internal server error received in endpoint", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if encodeErr := json.NewEncoder(w).Encode(api.ErrorResponse{Error: err.Error()}); encodeErr != nil {
		slog.Error("error serializing error response", "error", encodeErr)
	}
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			writeError(w, err)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, res)
	}
}

// StreamHandler relays a refinement stream as newline-delimited JSON
// frames. Errors before the first frame get a regular JSON error response;
// once headers are committed, failures are reported in-stream and the
// status stays 200.
func StreamHandler(handler func(r *http.Request) (refine.Stream, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stream, err := handler(r)
		if err != nil {
			writeError(w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			slog.Error("response writer does not support flushing")
			writeError(w, CodedErrorf(http.StatusInternalServerError, "streaming not supported"))
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		encoder := json.NewEncoder(w)
		for event, err := range stream {
			var chunk api.StreamChunk
			switch {
			case err != nil:
				chunk = api.StreamChunk{Error: err.Error()}
			case event.Done:
				chunk = api.StreamChunk{Done: true, SubmissionID: event.SubmissionID.String()}
			default:
				chunk = api.StreamChunk{Content: event.Content}
			}

			if writeErr := encoder.Encode(chunk); writeErr != nil {
				slog.Error("error writing stream chunk", "error", writeErr)
				return
			}
			flusher.Flush()

			if err != nil || event.Done {
				return
			}
		}
	}
}

func WriteJsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error serializing response body", "error", err)
	}
}
