package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
)

func record(bookID string, checkout time.Time, titleAuthor string) domain.CheckoutRecord {
	return domain.CheckoutRecord{
		BookID:       bookID,
		CheckoutDate: checkout,
		TitleAuthor:  titleAuthor,
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	_, err := Analyze(nil, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestAnalyzeDeduplicatesByBookID(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.CheckoutRecord{
		record("B001", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "first loan"),
		record("B001", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "second loan"),
		record("B002", time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "other book"),
	}

	patterns, err := Analyze(records, now)
	require.NoError(t, err)

	assert.Equal(t, 2, patterns.TotalBooks)
	require.Len(t, patterns.UniqueRecords, 2)
	// First occurrence wins.
	assert.Equal(t, "first loan", patterns.UniqueRecords[0].TitleAuthor)
	assert.Equal(t, "other book", patterns.UniqueRecords[1].TitleAuthor)
}

func TestAnalyzeThisYearCountsUniqueBooks(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.CheckoutRecord{
		record("B001", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "a"),
		record("B001", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "a"),
		record("B002", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), "b"),
	}

	patterns, err := Analyze(records, now)
	require.NoError(t, err)

	assert.Equal(t, 2, patterns.TotalBooks)
	assert.Equal(t, 1, patterns.ThisYearBooks)
}

func TestAnalyzeMonthlyHistogramCountsLoanEvents(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.CheckoutRecord{
		record("B001", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "a"),
		record("B001", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "a"),
		record("B002", time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), "b"),
		// Previous year is excluded from the histogram.
		record("B003", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "c"),
	}

	patterns, err := Analyze(records, now)
	require.NoError(t, err)

	assert.Equal(t, 2, patterns.MonthlyCounts[time.March])
	assert.Equal(t, 1, patterns.MonthlyCounts[time.April])
	assert.Len(t, patterns.MonthlyCounts, 2)
}
