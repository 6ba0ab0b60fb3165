package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-library/pkg/book"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/response"
	"golang.org/x/exp/slog"
)

// BookRequest is the body of create and update requests
type BookRequest struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
}

// BookResponse is the public view of a catalog entry
type BookResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Synopsis string    `json:"synopsis"`
}

func toResponse(b book.Book) BookResponse {
	var resp BookResponse
	if err := copier.Copy(&resp, &b); err != nil {
		slog.Error("Failed to copy book", "book_id", b.ID, "err", err)
	}
	return resp
}

// BookHandler handles HTTP requests for the catalog
type BookHandler struct {
	bookService *book.BookService
	defaults    pagination.Defaults
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *book.BookService, defaults pagination.Defaults) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		defaults:    defaults,
	}
}

// Routes mounts the catalog endpoints on r. Write endpoints still rely on
// the service to check the caller's role.
func Routes(r chi.Router, h *BookHandler) {
	r.Get("/", h.ListBooks)
	r.Post("/", h.CreateBook)
	r.Get("/{bookID}", h.GetBook)
	r.Put("/{bookID}", h.UpdateBook)
	r.Delete("/{bookID}", h.DeleteBook)
}

// BookID parses the {bookID} path parameter.
func BookID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		return uuid.Nil, liberrors.InvalidInput("bookID", "must be a UUID")
	}
	return id, nil
}

func decodeBook(r *http.Request) (book.Book, error) {
	var req BookRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return book.Book{}, liberrors.InvalidInput("body", "must be a JSON book")
	}
	var b book.Book
	if err := copier.Copy(&b, &req); err != nil {
		return book.Book{}, liberrors.InternalWrap(err, "failed to copy book request")
	}
	return b, nil
}

// ListBooks handles GET /api/books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination.ParseParams(r, h.defaults)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	page, err := h.bookService.ListBooks(r.Context(), offset, limit)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, pagination.Map(page, toResponse))
}

// GetBook handles GET /api/books/{bookID}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := BookID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	b, err := h.bookService.FindBook(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toResponse(b))
}

// CreateBook handles POST /api/books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	b, err := decodeBook(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	created, err := h.bookService.CreateBook(r.Context(), p, b)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, r, "/api/books/"+created.ID.String(), toResponse(created))
}

// UpdateBook handles PUT /api/books/{bookID}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	id, err := BookID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	b, err := decodeBook(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	updated, err := h.bookService.UpdateBook(r.Context(), p, id, b)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toResponse(updated))
}

// DeleteBook handles DELETE /api/books/{bookID}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	id, err := BookID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), p, id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w, r)
}
