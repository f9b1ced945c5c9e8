package domain

import "time"

// Item represents a vocabulary entry in the catalog
type Item struct {
	ID              int64
	Prompt          string
	Translation     string
	Transliteration string
	Level           int
	Active          bool
	CreatedAt       time.Time
}

// MinLevel and MaxLevel bound the difficulty tiers of the catalog
const (
	MinLevel = 1
	MaxLevel = 5
)

// ValidLevel reports whether level is a known difficulty tier
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// ItemIDs returns ids of the given items in order
func ItemIDs(items []Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
