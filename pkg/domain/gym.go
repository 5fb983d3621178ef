package domain

// Gym is a gym location returned by GET /gyms.
type Gym struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
