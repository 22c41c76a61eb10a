package request

type CreateBookingRequest struct {
	Name   string `json:"name" validate:"required,notblank"`
	Email  string `json:"email" validate:"required,simple_email"`
	SlotID ID     `json:"slotId" validate:"required,notzero"`
}

type PayBookingRequest struct {
	BookingID ID `json:"bookingId" validate:"required,notzero"`
}

type CancelBookingRequest struct {
	BookingID ID `json:"bookingId" validate:"required,notzero"`
}

type RescheduleBookingRequest struct {
	BookingID ID `json:"bookingId" validate:"required,notzero"`
	NewSlotID ID `json:"newSlotId" validate:"required,notzero"`
}
