// Package catalog derives the document listings shown by the workspace
// (library, category and dashboard views) from the cached snapshot. All
// functions are pure and never modify their input slices.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dustin/go-humanize"
)

// Sort orders a listing.
type Sort string

const (
	SortRecent       Sort = "recent"
	SortAlphabetical Sort = "alphabetical"
)

func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case SortRecent, SortAlphabetical:
		return Sort(s), nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", common.ErrorValidation, s)
}

// AllCategories is the category filter value that matches every document.
const AllCategories = "all"

// RecentCount is the size of the dashboard "recently uploaded" list.
const RecentCount = 4

const (
	NoSummary       = "No summary available."
	UnknownCategory = "N/A"
)

// Filter is the search/category/sort selection of the library view.
// CategoryID 0 means all categories.
type Filter struct {
	Search     string
	CategoryID int64
	Sort       Sort
}

func DefaultFilter() Filter {
	return Filter{Sort: SortRecent}
}

// Category renders the category selection as "all" or the decimal id.
func (f Filter) Category() string {
	if f.CategoryID == 0 {
		return AllCategories
	}
	return strconv.FormatInt(f.CategoryID, 10)
}

// ParseCategory accepts "all" or a positive category id.
func ParseCategory(s string) (int64, error) {
	if s == AllCategories {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: category must be %q or a positive id, got %q", common.ErrorValidation, AllCategories, s)
	}
	return id, nil
}

// Apply filters docs by case-insensitive title substring and category, then
// sorts them according to f.Sort.
func Apply(docs []models.Document, f Filter) []models.Document {
	needle := strings.ToLower(f.Search)
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if f.CategoryID != 0 && d.CategoryID != f.CategoryID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(d.Title), needle) {
			continue
		}
		out = append(out, d)
	}

	switch f.Sort {
	case SortAlphabetical:
		slices.SortStableFunc(out, byTitle)
	default:
		slices.SortStableFunc(out, byRecent)
	}
	return out
}

// Recent returns up to n documents, newest first.
func Recent(docs []models.Document, n int) []models.Document {
	out := slices.Clone(docs)
	slices.SortStableFunc(out, byRecent)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// InCategory lists the documents of category id, newest first.
func InCategory(docs []models.Document, id int64) []models.Document {
	return Apply(docs, Filter{CategoryID: id, Sort: SortRecent})
}

func byRecent(a, b models.Document) int {
	if c := b.CreatedAt.Compare(a.CreatedAt.Time); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func byTitle(a, b models.Document) int {
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Summary returns the document summary or the fallback text.
func Summary(d models.Document) string {
	if strings.TrimSpace(d.Summary) == "" {
		return NoSummary
	}
	return d.Summary
}

// CategoryName resolves id against cats, falling back to "N/A".
func CategoryName(cats []models.Category, id int64) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownCategory
}

// Age renders how long ago the document was created, e.g. "3 days ago".
func Age(d models.Document, now time.Time) string {
	if d.CreatedAt.IsZero() {
		return UnknownCategory
	}
	return humanize.RelTime(d.CreatedAt.Time, now, "ago", "from now")
}

// CategoryCard is one tile of the dashboard category grid.
type CategoryCard struct {
	ID        int64
	Name      string
	Documents int
}

// CategoryCards counts documents per category, in category order.
func CategoryCards(cats []models.Category, docs []models.Document) []CategoryCard {
	counts := make(map[int64]int, len(cats))
	for _, d := range docs {
		counts[d.CategoryID]++
	}
	out := make([]CategoryCard, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryCard{ID: c.ID, Name: c.Name, Documents: counts[c.ID]})
	}
	return out
}
