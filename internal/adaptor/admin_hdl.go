package adaptor

import (
	"net/http"

	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.BookingService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ListBookings handles GET /api/admin/bookings?page=&per_page=
// There is no access control on this route.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePagination(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid pagination parameters")
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), page)
	if err != nil {
		h.log.Error("Failed to fetch bookings", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to fetch bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// parsePagination returns nil when neither page nor per_page is given.
func parsePagination(r *http.Request) (*request.PaginatedRequest, bool) {
	query := r.URL.Query()
	if !query.Has("page") && !query.Has("per_page") {
		return nil, true
	}

	page := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if errs := utils.ValidateStruct(page); len(errs) > 0 {
		return nil, false
	}

	return page, true
}
