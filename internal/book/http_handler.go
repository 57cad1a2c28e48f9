package book

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"libraryapi/internal/httpx"

	"github.com/julienschmidt/httprouter"
)

const (
	basePath          = "/books"
	duplicateISBNText = "A book with the same ISBN already exists."
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// RegisterRoutes adds the /books endpoints to router.
func (h *HTTPHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handler(http.MethodPost, basePath, h.handle(h.Create))
	router.Handler(http.MethodGet, basePath, h.handle(h.List))
	router.Handler(http.MethodGet, basePath+"/:isbn", h.handle(h.GetByISBN))
	router.Handler(http.MethodPut, basePath+"/:isbn", h.handle(h.Update))
	router.Handler(http.MethodDelete, basePath+"/:isbn", h.handle(h.Delete))
}

func (h *HTTPHandler) handle(fn func(r *http.Request) Result) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r).Write(w, r, h.logger)
	})
}

// Create handles POST /books
func (h *HTTPHandler) Create(r *http.Request) Result {
	var b Book
	if err := httpx.ReadJSON(r, &b); err != nil {
		return decodeFailure(err)
	}

	if violations := Validate(b); len(violations) > 0 {
		return BadRequest(violations...)
	}

	created, err := h.service.Create(r.Context(), b)
	if err != nil {
		return Fault(err)
	}
	if !created {
		return BadRequest(Violation{PropertyName: "isbn", ErrorMessage: duplicateISBNText})
	}

	return Created(b, Location(b.ISBN))
}

// List handles GET /books and GET /books?searchTerm=
func (h *HTTPHandler) List(r *http.Request) Result {
	var (
		books []Book
		err   error
	)
	if term := r.URL.Query().Get("searchTerm"); strings.TrimSpace(term) != "" {
		books, err = h.service.SearchByTitle(r.Context(), term)
	} else {
		books, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		return Fault(err)
	}
	return Ok(books)
}

// GetByISBN handles GET /books/{isbn}
func (h *HTTPHandler) GetByISBN(r *http.Request) Result {
	b, err := h.service.GetByISBN(r.Context(), isbnParam(r))
	if err != nil {
		return Fault(err)
	}
	if b == nil {
		return NotFound()
	}
	return Ok(b)
}

// Update handles PUT /books/{isbn}
func (h *HTTPHandler) Update(r *http.Request) Result {
	var b Book
	if err := httpx.ReadJSON(r, &b); err != nil {
		return decodeFailure(err)
	}

	// The path identifies the book; whatever isbn the body carries is ignored.
	b.ISBN = isbnParam(r)

	if violations := Validate(b); len(violations) > 0 {
		return BadRequest(violations...)
	}

	updated, err := h.service.Update(r.Context(), b)
	if err != nil {
		return Fault(err)
	}
	if !updated {
		return NotFound()
	}
	return Ok(b)
}

// Delete handles DELETE /books/{isbn}
func (h *HTTPHandler) Delete(r *http.Request) Result {
	deleted, err := h.service.Delete(r.Context(), isbnParam(r))
	if err != nil {
		return Fault(err)
	}
	if !deleted {
		return NotFound()
	}
	return NoContent()
}

// Location returns the canonical path of the book with the given ISBN.
func Location(isbn string) string {
	return basePath + "/" + url.PathEscape(isbn)
}

func isbnParam(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("isbn")
}

// decodeFailure maps a ReadJSON error to its result. A body cut off by
// http.MaxBytesReader is a 413, anything else a 400 on "body".
func decodeFailure(err error) Result {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return PayloadTooLarge()
	}
	return BadRequest(Violation{PropertyName: "body", ErrorMessage: err.Error()})
}
