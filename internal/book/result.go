package book

import (
	"log/slog"
	"net/http"

	"libraryapi/internal/httpx"
)

// ResultKind tags the variant held by a Result.
type ResultKind int

const (
	KindOk ResultKind = iota
	KindCreated
	KindBadRequest
	KindNotFound
	KindNoContent
	KindPayloadTooLarge
	KindFault
)

// Result is the outcome of a handler, rendered by Write.
type Result struct {
	Kind       ResultKind
	Body       any
	Location   string
	Violations []Violation
	Err        error
}

func Ok(body any) Result {
	return Result{Kind: KindOk, Body: body}
}

func Created(body any, location string) Result {
	return Result{Kind: KindCreated, Body: body, Location: location}
}

func BadRequest(violations ...Violation) Result {
	return Result{Kind: KindBadRequest, Violations: violations}
}

func NotFound() Result {
	return Result{Kind: KindNotFound}
}

func NoContent() Result {
	return Result{Kind: KindNoContent}
}

func PayloadTooLarge() Result {
	return Result{Kind: KindPayloadTooLarge}
}

// Fault wraps an unexpected storage error.
func Fault(err error) Result {
	return Result{Kind: KindFault, Err: err}
}

// StatusCode maps the variant to its HTTP status.
func (res Result) StatusCode() int {
	switch res.Kind {
	case KindOk:
		return http.StatusOK
	case KindCreated:
		return http.StatusCreated
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNoContent:
		return http.StatusNoContent
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Write renders the result. Faults are logged and answered with a generic 500.
func (res Result) Write(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	var err error
	switch res.Kind {
	case KindOk:
		err = httpx.JSON(w, http.StatusOK, res.Body, nil)
	case KindCreated:
		headers := http.Header{}
		headers.Set("Location", res.Location)
		err = httpx.JSON(w, http.StatusCreated, res.Body, headers)
	case KindBadRequest:
		err = httpx.JSON(w, http.StatusBadRequest, res.Violations, nil)
	case KindNotFound, KindNoContent:
		httpx.NoContent(w, res.StatusCode())
	case KindPayloadTooLarge:
		httpx.JSONErrorWithRequest(r, w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.Any("error", res.Err),
		)
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
	if err != nil {
		logger.Error("write response", slog.String("request_id", httpx.RequestIDFrom(r)), slog.Any("error", err))
	}
}
