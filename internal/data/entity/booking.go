package entity

import "time"

type Booking struct {
	ID              string
	Name            string
	Email           string
	SlotID          int
	Paid            bool
	PaymentIntentID string
	CreatedAt       time.Time
}
