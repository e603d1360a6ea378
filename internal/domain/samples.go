package domain

import "github.com/shopspring/decimal"

// SampleInstruments is the demo catalogue used for offline mode and for
// seeding a local backend.
func SampleInstruments() []Instrument {
	return []Instrument{
		{ID: "1", HostID: "h1", Name: "Fender Stratocaster", Category: "Guitar",
			Description: "American Professional II in sunburst. Rosewood fretboard, perfect condition.",
			PricePerDay: decimal.NewFromInt(18), ImageEmoji: "🎸", Location: "San José", IsAvailable: true, Rating: 4.9, ReviewCount: 47},
		{ID: "2", HostID: "h2", Name: "Yamaha P-125 Piano", Category: "Piano",
			Description: "88-key weighted digital piano. Includes sustain pedal and stand.",
			PricePerDay: decimal.NewFromInt(25), ImageEmoji: "🎹", Location: "Heredia", IsAvailable: true, Rating: 4.8, ReviewCount: 31},
		{ID: "3", HostID: "h3", Name: "Pearl Export Drum Kit", Category: "Drums",
			Description: "Full 5-piece kit with cymbals, hardware and throne.",
			PricePerDay: decimal.NewFromInt(35), ImageEmoji: "🥁", Location: "Alajuela", IsAvailable: true, Rating: 4.7, ReviewCount: 22},
		{ID: "4", HostID: "h4", Name: "Yamaha Alto Saxophone", Category: "Brass",
			Description: "YAS-280. Comes with mouthpiece, ligature and hard case.",
			PricePerDay: decimal.NewFromInt(22), ImageEmoji: "🎷", Location: "San José", IsAvailable: true, Rating: 4.8, ReviewCount: 29},
		{ID: "5", HostID: "h5", Name: "Stentor Violin 4/4", Category: "Strings",
			Description: "Full-size violin with bow, rosin and case.",
			PricePerDay: decimal.NewFromInt(14), ImageEmoji: "🎻", Location: "Cartago", IsAvailable: true, Rating: 4.9, ReviewCount: 56},
		{ID: "6", HostID: "h6", Name: "Roland TD-17 E-Drums", Category: "Drums",
			Description: "Professional V-Drums. Mesh heads, Bluetooth, totally silent.",
			PricePerDay: decimal.NewFromInt(42), ImageEmoji: "🥁", Location: "San José", IsAvailable: false, Rating: 4.9, ReviewCount: 14},
	}
}
