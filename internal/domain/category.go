package domain

// CategoryOther is the fallback category for books no keyword matches.
const CategoryOther = "other"

// CategoryInfo is static display metadata for a category. It is supplied by
// the registry document's configuration and never generated.
type CategoryInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
