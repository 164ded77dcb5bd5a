// Package page renders the static per-user library profile page.
//
// One HTML file per user, written as {pagesDir}/mypage_{id}.html. Rendering
// goes through a temp file plus rename so an aborted render never leaves a
// half-written page where the dashboard links to it.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
	"github.com/myshelfapp/myshelf-server/internal/profile"
)

//go:embed templates/mypage.html
var templates embed.FS

// maxDonutSlices caps the specialization donut at four slices; smaller
// categories fall off the chart but stay in the reading history.
const maxDonutSlices = 4

// maxBookCards caps the bookshelf grid.
const maxBookCards = 9

// Renderer writes profile pages into a fixed directory.
type Renderer struct {
	dir    string
	logger *slog.Logger
	tmpl   *template.Template
}

// NewRenderer parses the embedded template and returns a renderer targeting
// dir.
func NewRenderer(dir string, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("mypage.html").Funcs(template.FuncMap{
		"stars": starRating,
	}).ParseFS(templates, "templates/mypage.html")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "parse page template")
	}
	return &Renderer{dir: dir, logger: logger, tmpl: tmpl}, nil
}

// FilePath returns where the user's page lives (or would live).
func (r *Renderer) FilePath(userID string) string {
	return filepath.Join(r.dir, "mypage_"+userID+".html")
}

// Remove deletes the user's page artifact. A page that was never rendered is
// not an error.
func (r *Renderer) Remove(userID string) error {
	err := os.Remove(r.FilePath(userID))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CodeInternal, "remove profile page")
	}
	return nil
}

type monthlyBar struct {
	Height int
	Label  string
}

type legendItem struct {
	Color template.CSS
	Name  string
	Pct   int
}

type viewData struct {
	Profile        *domain.UserProfile
	Year           int
	MonthlyBars    []monthlyBar
	DonutGradient  template.CSS
	Legend         []legendItem
	Books          []domain.BookEntry
	CurrentReading *domain.BookEntry
	ProgressPct    int
}

// Render writes the profile page for the given user.
func (r *Renderer) Render(p *domain.UserProfile, categories map[string]domain.CategoryInfo, now time.Time) error {
	data := buildViewData(p, categories, now)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "render profile page")
	}

	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create pages directory")
	}
	tmp, err := os.CreateTemp(r.dir, ".mypage-*.html")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create page temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "write page temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "close page temp file")
	}

	target := r.FilePath(p.ID)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "replace profile page")
	}

	r.logger.Info("rendered profile page", "user_id", p.ID, "path", target)
	return nil
}

func buildViewData(p *domain.UserProfile, categories map[string]domain.CategoryInfo, now time.Time) viewData {
	data := viewData{
		Profile:     p,
		Year:        now.Year(),
		MonthlyBars: syntheticMonthlyBars(),
	}

	data.DonutGradient, data.Legend = donutChart(p.ReadingHistory, categories)

	books := p.ReadingHistory
	if len(books) > maxBookCards {
		books = books[:maxBookCards]
	}
	data.Books = books

	if p.CurrentReading != nil {
		data.CurrentReading = p.CurrentReading
		data.ProgressPct = int(p.CurrentReading.Progress * 100)
	}
	return data
}

// syntheticMonthlyBars produces the fixed placeholder bar chart. Real
// per-month counts exist in the aggregation step but the page keeps the
// dashboard's original placeholder visualization.
func syntheticMonthlyBars() []monthlyBar {
	bars := make([]monthlyBar, 0, 6)
	for i := 0; i < 6; i++ {
		height := (i + 1) * 20
		if height > 100 {
			height = 100
		}
		if height < 20 {
			height = 20
		}
		count := height / 20
		if count < 1 {
			count = 1
		}
		bars = append(bars, monthlyBar{Height: height, Label: fmt.Sprintf("%d冊", count)})
	}
	return bars
}

// donutChart builds the conic-gradient background and legend from category
// percentages, in reading-history encounter order, skipping categories the
// registry table does not know, capped at maxDonutSlices.
func donutChart(history []domain.BookEntry, categories map[string]domain.CategoryInfo) (template.CSS, []legendItem) {
	percentages := profile.CategoryPercentages(history)

	var (
		slices  []string
		legend  []legendItem
		percent int
	)
	for _, entry := range history {
		if len(slices) >= maxDonutSlices {
			break
		}
		pct, pending := percentages[entry.Category]
		if !pending {
			continue
		}
		delete(percentages, entry.Category)

		info, ok := categories[entry.Category]
		if !ok {
			continue
		}
		slices = append(slices, fmt.Sprintf("%s %d%% %d%%", info.Color, percent, percent+pct))
		legend = append(legend, legendItem{
			Color: template.CSS(info.Color),
			Name:  info.Name,
			Pct:   pct,
		})
		percent += pct
	}

	gradient := template.CSS("conic-gradient(" + strings.Join(slices, ", ") + ")")
	return gradient, legend
}

func starRating(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
