package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	bookapi "github.com/tendant/simple-library/pkg/book/api"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/reservation"
	"github.com/tendant/simple-library/pkg/response"
	"golang.org/x/exp/slog"
)

// ReservationResponse is the public view of a reservation
type ReservationResponse struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	State      string    `json:"state"`
	ReservedAt time.Time `json:"reserved_at"`
}

func toResponse(res reservation.Reservation) ReservationResponse {
	var resp ReservationResponse
	if err := copier.Copy(&resp, &res); err != nil {
		slog.Error("Failed to copy reservation", "reservation_id", res.ID, "err", err)
	}
	resp.State = string(res.State)
	return resp
}

// ReservationHandler handles HTTP requests for reservations
type ReservationHandler struct {
	reservationService *reservation.ReservationService
	defaults           pagination.Defaults
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *reservation.ReservationService, defaults pagination.Defaults) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		defaults:           defaults,
	}
}

// BookRoutes mounts the per-book endpoints under /api/books/{bookID}/reservations.
func BookRoutes(r chi.Router, h *ReservationHandler) {
	r.Post("/", h.CreateReservation)
	r.Get("/{reservationID}", h.GetReservation)
	r.Delete("/{reservationID}", h.CancelReservation)
}

// Routes mounts the listing endpoint under /api/reservations.
func Routes(r chi.Router, h *ReservationHandler) {
	r.Get("/", h.ListReservations)
}

func pathIDs(r *http.Request) (bookID, reservationID uuid.UUID, err error) {
	bookID, err = bookapi.BookID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	reservationID, err = uuid.Parse(chi.URLParam(r, "reservationID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, liberrors.InvalidInput("reservationID", "must be a UUID")
	}
	return bookID, reservationID, nil
}

// CreateReservation handles POST /api/books/{bookID}/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	bookID, err := bookapi.BookID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	created, err := h.reservationService.CreateReservation(r.Context(), p, bookID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	location := fmt.Sprintf("/api/books/%s/reservations/%s", bookID, created.ID)
	response.Created(w, r, location, toResponse(created))
}

// GetReservation handles GET /api/books/{bookID}/reservations/{reservationID}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	bookID, id, err := pathIDs(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	res, err := h.reservationService.GetReservation(r.Context(), p, bookID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toResponse(res))
}

// CancelReservation handles DELETE /api/books/{bookID}/reservations/{reservationID}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	bookID, id, err := pathIDs(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	res, err := h.reservationService.CancelReservation(r.Context(), p, bookID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toResponse(res))
}

// ListReservations handles GET /api/reservations?user_id&offset&limit
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())

	offset, limit, err := pagination.ParseParams(r, h.defaults)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var requested *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, r, liberrors.InvalidInput("user_id", "must be a UUID"))
			return
		}
		requested = &id
	}

	page, err := h.reservationService.ListReservations(r.Context(), p, requested, offset, limit)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, pagination.Map(page, toResponse))
}
