package adaptive

import "github.com/lingualoop/backend/internal/progression"

// topicCatalog orders conversation topics from easiest to hardest.
// Each band unlocks a contiguous slice.
var topicCatalog = []string{
	// beginner
	"introductions",
	"daily_routines",
	"hobbies",
	"food_ordering",
	"asking_directions",
	// intermediate
	"travel_planning",
	"work_life",
	"shopping_negotiation",
	"health_wellness",
	"storytelling",
	// advanced
	"current_events",
	"cultural_traditions",
	"business_meetings",
	"abstract_debate",
	"humor_idioms",
}

// topicsForBand returns the catalog slice available at the learner's
// proficiency band. Higher bands include everything below them.
func topicsForBand(band progression.Band) []string {
	switch band {
	case progression.BandAdvanced:
		return topicCatalog
	case progression.BandIntermediate:
		return topicCatalog[:10]
	}
	return topicCatalog[:5]
}
