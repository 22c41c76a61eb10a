package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type SlotResponse struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	SlotID          int       `json:"slotId"`
	Paid            bool      `json:"paid"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type CreateBookingResponse struct {
	BookingID string `json:"bookingId"`
}

// BookingListResponse carries the full ledger size in Total even when
// Bookings holds a single page.
type BookingListResponse struct {
	Total      int               `json:"total"`
	Bookings   []BookingResponse `json:"bookings"`
	Pagination *PaginationMeta   `json:"pagination,omitempty"`
}

type BookingActionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}

type PaymentResponse struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// Helper converters
func SlotToResponse(slot *entity.Slot) SlotResponse {
	return SlotResponse{
		ID:        slot.ID,
		Date:      slot.Date,
		Time:      slot.Time,
		Available: slot.Available,
	}
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              booking.ID,
		Name:            booking.Name,
		Email:           booking.Email,
		SlotID:          booking.SlotID,
		Paid:            booking.Paid,
		PaymentIntentID: booking.PaymentIntentID,
		CreatedAt:       booking.CreatedAt,
	}
}
