package domain

// UserStats holds the counters shown on a profile page.
//
// Only TotalBooks and ThisYearBooks are measured from the checkout export.
// The remaining counters are placeholder heuristics derived from TotalBooks
// (see profile.Build) and must not be treated as authoritative.
type UserStats struct {
	TotalBooks    int `json:"totalBooks"`
	ThisYearBooks int `json:"thisYearBooks"`
	Publications  int `json:"publications"`
	Presentations int `json:"presentations"`
	Datasets      int `json:"datasets"`
	CodeRepos     int `json:"coderepos"`
	Awards        int `json:"awards"`
}

// UserProfile is the generated profile for one user. A generation run fully
// replaces any prior profile with the same ID; there is no field-level merge.
type UserProfile struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	NameJa          string      `json:"nameJa"`
	Position        string      `json:"position"`
	Avatar          string      `json:"avatar"`
	Email           string      `json:"email"`
	Specializations []string    `json:"specializations"`
	Stats           UserStats   `json:"stats"`
	CurrentReading  *BookEntry  `json:"currentReading,omitempty"`
	ReadingHistory  []BookEntry `json:"readingHistory"`

	// NetworkConnections is kept for schema compatibility with the
	// registry document; edges live in Registry.Network.
	NetworkConnections []string `json:"networkConnections"`
}
