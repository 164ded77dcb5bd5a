// Package profile turns checkout records into user profiles: it aggregates
// reading patterns, classifies history entries, and derives the profile
// statistics shown on a generated page.
package profile

import (
	"time"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
)

// ReadingPatterns is the aggregate view of one user's checkout records.
type ReadingPatterns struct {
	// UniqueRecords holds one record per book ID, first occurrence kept,
	// in row order. Everything downstream preserves this order.
	UniqueRecords []domain.CheckoutRecord
	// TotalBooks is the number of unique books.
	TotalBooks int
	// ThisYearBooks counts unique books checked out in the current year.
	ThisYearBooks int
	// MonthlyCounts is a month histogram of loan events in the current year.
	MonthlyCounts map[time.Month]int
}

// Analyze deduplicates checkout records by book ID and computes yearly and
// monthly counts relative to now. An empty input is a terminal failure: no
// profile can be generated without at least one record.
func Analyze(records []domain.CheckoutRecord, now time.Time) (*ReadingPatterns, error) {
	if len(records) == 0 {
		return nil, errors.Validation("checkout export contains no records")
	}

	currentYear := now.Year()

	patterns := &ReadingPatterns{
		MonthlyCounts: make(map[time.Month]int),
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !seen[rec.BookID] {
			seen[rec.BookID] = true
			patterns.UniqueRecords = append(patterns.UniqueRecords, rec)
			if rec.CheckoutDate.Year() == currentYear {
				patterns.ThisYearBooks++
			}
		}
		// The month histogram counts loan events, not unique books.
		if rec.CheckoutDate.Year() == currentYear {
			patterns.MonthlyCounts[rec.CheckoutDate.Month()]++
		}
	}

	patterns.TotalBooks = len(patterns.UniqueRecords)
	return patterns, nil
}
