package domain

// Placeholder values attached to every book entry. The export carries no
// rating, progress, or cover data, so these are fixed stand-ins the frontend
// renders until a real source exists. Do not treat them as measured data.
const (
	// PlaceholderRating is the star rating assigned to every book.
	PlaceholderRating = 4
	// PlaceholderProgress is the reading progress assigned to the
	// currently-reading entry (0.0 - 1.0).
	PlaceholderProgress = 0.7
	// PlaceholderCoverURL is used for every book cover.
	PlaceholderCoverURL = "https://via.placeholder.com/240x360/f0f0f0/666?text=Book+Cover"
)

// BookEntry is one distinct book derived from checkout records,
// deduplicated by book ID (first occurrence wins).
type BookEntry struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Category string  `json:"category"`
	Year     string  `json:"year"`
	Rating   int     `json:"rating"`
	Cover    string  `json:"cover"`
	Progress float64 `json:"progress,omitempty"` // set only on the currently-reading entry
}
