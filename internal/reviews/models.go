package reviews

import "time"

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product"`
	UserID    string    `json:"user"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
