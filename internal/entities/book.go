package entities

import (
	"fmt"
	"time"
)

type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description,omitempty"`
	CreatedAt   Timestamp  `json:"createdAt"`
	ReleaseAt   *Timestamp `json:"releaseAt,omitempty"` // optional future release
}

// IsUpcoming reports whether the book has a release time strictly after now.
func (b Book) IsUpcoming(now Timestamp) bool {
	return b.ReleaseAt != nil && b.ReleaseAt.After(now)
}

// Countdown is the remaining time until a book's release, split for display.
type Countdown struct {
	Days     int64  `json:"days"`
	Hours    int64  `json:"hours"`
	Minutes  int64  `json:"minutes"`
	Seconds  int64  `json:"seconds"`
	Released bool   `json:"released"`
	Label    string `json:"label"`
}

// Countdown computes the time left until release relative to now. Books
// without a release time are reported as released.
func (b Book) Countdown(now Timestamp) Countdown {
	if b.ReleaseAt == nil || !b.ReleaseAt.After(now) {
		return Countdown{Released: true, Label: "Released"}
	}

	left := time.Duration(int64(*b.ReleaseAt)-int64(now)) * time.Millisecond
	sec := int64(left / time.Second)
	c := Countdown{
		Days:    sec / 86400,
		Hours:   (sec % 86400) / 3600,
		Minutes: (sec % 3600) / 60,
		Seconds: sec % 60,
	}
	c.Label = fmt.Sprintf("%dd %02d:%02d:%02d", c.Days, c.Hours, c.Minutes, c.Seconds)
	return c
}
