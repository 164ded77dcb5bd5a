// Package ingest parses library checkout exports into checkout records.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
)

// columnCount is the fixed schema width of a checkout export:
// id, bookId, checkoutDate, returnDate, location, classificationCode,
// titleAuthor.
const columnCount = 7

// dateLayouts are tried in order when parsing checkout/return dates.
// Exports normally use ISO dates but some systems emit slashes or full
// timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseFile reads a tab-separated checkout export with no header row.
//
// Every row must have exactly 7 columns. A trailing tab produces an 8th,
// entirely-empty column in every row; that variant is accepted and the empty
// column dropped. Any other column count is a hard failure carrying the
// observed count. Field contents are not validated beyond the checkout date,
// which must parse.
func ParseFile(path string) ([]domain.CheckoutRecord, error) {
	file, err := os.Open(path) //#nosec G304 -- upload path is server-generated
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "open checkout export")
	}
	defer file.Close()

	var rows [][]string
	scanner := bufio.NewScanner(file)
	// Titles can be long; default token size is too small for some exports.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "read checkout export")
	}

	rows = dropEmptyTrailingColumn(rows)

	records := make([]domain.CheckoutRecord, 0, len(rows))
	for i, fields := range rows {
		if len(fields) != columnCount {
			return nil, errors.Validationf("row %d has %d columns, expected %d", i+1, len(fields), columnCount)
		}

		checkout, err := parseDate(fields[2])
		if err != nil {
			return nil, errors.Validationf("row %d has unparsable checkout date %q", i+1, fields[2])
		}
		// Return date may be missing for books still out.
		returned, _ := parseDate(fields[3])

		records = append(records, domain.CheckoutRecord{
			ID:                 strings.TrimSpace(fields[0]),
			BookID:             strings.TrimSpace(fields[1]),
			CheckoutDate:       checkout,
			ReturnDate:         returned,
			Location:           strings.TrimSpace(fields[4]),
			ClassificationCode: strings.TrimSpace(fields[5]),
			TitleAuthor:        strings.TrimSpace(fields[6]),
		})
	}

	return records, nil
}

// dropEmptyTrailingColumn removes the 8th column when every row has exactly
// 8 columns and the 8th is empty in all of them (a trailing delimiter
// artifact). Anything else is left untouched for the per-row count check.
func dropEmptyTrailingColumn(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	for _, fields := range rows {
		if len(fields) != columnCount+1 || strings.TrimSpace(fields[columnCount]) != "" {
			return rows
		}
	}
	trimmed := make([][]string, len(rows))
	for i, fields := range rows {
		trimmed[i] = fields[:columnCount]
	}
	return trimmed
}

// parseDate tries each known layout in order.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}
