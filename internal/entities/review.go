package entities

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and text for a book. CreatedAt is refreshed on
// every edit.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"createdAt"`
}

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// ReviewWithUser is a review joined with its author. User is nil when the
// author no longer resolves.
type ReviewWithUser struct {
	Review
	User *PublicUser `json:"user"`
}

// ReviewDetails is a review joined with its author and book.
type ReviewDetails struct {
	Review Review      `json:"review"`
	User   *PublicUser `json:"user"`
	Book   *Book       `json:"book"`
}
