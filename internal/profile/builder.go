package profile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/myshelfapp/myshelf-server/internal/classify"
	"github.com/myshelfapp/myshelf-server/internal/domain"
)

// maxSpecializations caps how many top categories become specializations.
const maxSpecializations = 4

// Params carries the user identity for a generation run.
type Params struct {
	ID       string
	Name     string
	Position string
	Avatar   string
	Email    string
}

// Build assembles a UserProfile from aggregated reading patterns.
//
// Specializations are the up-to-four most frequent categories across the
// history, mapped to display names through the registry's category table;
// categories without an entry there are silently skipped. The
// publication/presentation/repo counters are placeholder heuristics on the
// book total, not measured data.
func Build(params Params, patterns *ReadingPatterns, categories map[string]domain.CategoryInfo) *domain.UserProfile {
	history := make([]domain.BookEntry, 0, len(patterns.UniqueRecords))
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for _, rec := range patterns.UniqueRecords {
		title, author := classify.ExtractBookInfo(rec.TitleAuthor)
		category := classify.Categorize(title, author)

		history = append(history, domain.BookEntry{
			Title:    title,
			Author:   author,
			Category: category,
			Year:     strconv.Itoa(rec.CheckoutDate.Year()),
			Rating:   domain.PlaceholderRating,
			Cover:    domain.PlaceholderCoverURL,
		})

		if _, ok := firstSeen[category]; !ok {
			firstSeen[category] = len(firstSeen)
		}
		counts[category]++
	}

	specializations := rankSpecializations(counts, firstSeen, categories)

	var current *domain.BookEntry
	if len(history) > 0 {
		entry := history[0]
		entry.Progress = domain.PlaceholderProgress
		current = &entry
	}

	email := params.Email
	if email == "" {
		email = params.ID + "@example.com"
	}

	return &domain.UserProfile{
		ID:              params.ID,
		Name:            params.Name,
		NameJa:          params.Name,
		Position:        params.Position,
		Avatar:          params.Avatar,
		Email:           email,
		Specializations: specializations,
		Stats: domain.UserStats{
			TotalBooks:    patterns.TotalBooks,
			ThisYearBooks: patterns.ThisYearBooks,
			Publications:  0,
			Presentations: thresholdCounter(patterns.TotalBooks, 10),
			Datasets:      0,
			CodeRepos:     thresholdCounter(patterns.TotalBooks, 5),
			Awards:        0,
		},
		CurrentReading:     current,
		ReadingHistory:     history,
		NetworkConnections: []string{},
	}
}

// rankSpecializations orders categories by descending count, ties broken by
// first-encountered order, takes the top maxSpecializations keys, and maps
// them to display names.
func rankSpecializations(counts, firstSeen map[string]int, categories map[string]domain.CategoryInfo) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})

	if len(keys) > maxSpecializations {
		keys = keys[:maxSpecializations]
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if info, ok := categories[key]; ok {
			names = append(names, info.Name)
		}
	}
	return names
}

// thresholdCounter is the placeholder heuristic for activity counters:
// 1 once the book total passes the threshold, else 0.
func thresholdCounter(totalBooks, threshold int) int {
	if totalBooks > threshold {
		return 1
	}
	return 0
}

// CategoryPercentages computes the per-category share of a reading history,
// rounded to whole percent. The renderer uses these for the donut chart and
// legend; when all categories are mapped they sum to 100 plus or minus
// rounding.
func CategoryPercentages(history []domain.BookEntry) map[string]int {
	if len(history) == 0 {
		return map[string]int{}
	}

	counts := make(map[string]int)
	for _, entry := range history {
		counts[entry.Category]++
	}

	total := float64(len(history))
	percentages := make(map[string]int, len(counts))
	for category, count := range counts {
		percentages[category] = int(math.Round(float64(count) / total * 100))
	}
	return percentages
}

// DefaultAvatarURL derives the placeholder avatar used when an upload does
// not supply one: a single-letter tile keyed on the user ID's initial.
func DefaultAvatarURL(userID string) string {
	initial := "U"
	if userID != "" {
		initial = strings.ToUpper(string([]rune(userID)[0]))
	}
	return fmt.Sprintf("https://via.placeholder.com/90x90/%s/fff?text=%s", initial, initial)
}
