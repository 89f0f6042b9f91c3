package playlist

import "strings"

// Categories is the closed set of category labels used for group-title
// validation and the per-category output partitions.
var Categories = []string{
	"Auto", "Animation", "Business", "Classic", "Comedy", "Cooking", "Culture",
	"Documentary", "Education", "Entertainment", "Family", "General", "Kids",
	"Legislative", "Lifestyle", "Movies", "Music", "News", "Outdoor", "Relax",
	"Religious", "Science", "Series", "Shop", "Sports", "Travel", "Weather",
	"XXX",
}

// CanonicalCategory matches a free-text label against Categories,
// case-insensitively, returning the canonical spelling.
func CanonicalCategory(label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories {
		if strings.EqualFold(c, label) {
			return c, true
		}
	}
	return "", false
}
