package domain

// Class is a bookable fitness class returned by GET /classes.
type Class struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
