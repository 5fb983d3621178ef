package domain

// Booking is the caller's reservation of a class.
type Booking struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// BookingRequest is the payload for POST /bookings.
type BookingRequest struct {
	ClassID int `json:"class_id"`
}
