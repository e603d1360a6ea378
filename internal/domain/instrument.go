package domain

import "github.com/shopspring/decimal"

// Categories offered by the listing form. "All" is a browse-only pseudo category.
var Categories = []string{"Guitar", "Piano", "Drums", "Bass", "Strings", "Brass", "DJ / Electronic", "Other"}

const CategoryAll = "All"

var EmojiOptions = []string{"🎸", "🎹", "🥁", "🎷", "🎻", "🎺", "🪕", "🎵", "🎧", "🪗"}

// Instrument is a listing owned by exactly one host.
// Rating and ReviewCount are aggregates maintained by the backend.
type Instrument struct {
	ID          string          `json:"id,omitempty"`
	HostID      string          `json:"host_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	ImageEmoji  string          `json:"image_emoji"`
	Location    string          `json:"location"`
	IsAvailable bool            `json:"is_available"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
}

// InstrumentSnapshot is the part of a listing copied onto a rental at booking time.
type InstrumentSnapshot struct {
	Name  string
	Emoji string
}

func (i *Instrument) Snapshot() InstrumentSnapshot {
	return InstrumentSnapshot{Name: i.Name, Emoji: i.ImageEmoji}
}

func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}
