package domain

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review belongs to at most one completed rental.
type Review struct {
	ID           string `json:"id,omitempty"`
	RentalID     string `json:"rental_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	ReviewerName string `json:"reviewer_name"`
}
