package catalog

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func doc(id int64, title string, cat int64, age time.Duration) models.Document {
	return models.Document{
		ID:         id,
		Title:      title,
		CategoryID: cat,
		CreatedAt:  models.Timestamp{Time: base.Add(-age)},
	}
}

func ids(docs []models.Document) []int64 {
	out := make([]int64, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func fixture() []models.Document {
	return []models.Document{
		doc(1, "kubernetes guide", 1, 72*time.Hour),
		doc(2, "Go Patterns", 2, time.Hour),
		doc(3, "Alpha notes", 1, 24*time.Hour),
		doc(4, "beta", 2, time.Hour), // same timestamp as 2
		doc(5, "alpha notes", 3, 10*time.Minute),
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"default recent", DefaultFilter(), []int64{5, 4, 2, 3, 1}},
		{"alphabetical case-insensitive", Filter{Sort: SortAlphabetical}, []int64{3, 5, 4, 2, 1}},
		{"search ignores case", Filter{Search: "NOTES", Sort: SortRecent}, []int64{5, 3}},
		{"category", Filter{CategoryID: 2, Sort: SortRecent}, []int64{4, 2}},
		{"category and search", Filter{CategoryID: 1, Search: "guide", Sort: SortAlphabetical}, []int64{1}},
		{"no match", Filter{Search: "zzz"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), tt.f))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecent_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)

	got := Recent(in, RecentCount)
	assert.Equal(t, []int64{5, 4, 2, 3}, ids(got))
	assert.Equal(t, before, ids(in))

	assert.Len(t, Recent(in[:2], RecentCount), 2)
	assert.Empty(t, Recent(nil, RecentCount))
}

func TestInCategory(t *testing.T) {
	assert.Equal(t, []int64{3, 1}, ids(InCategory(fixture(), 1)))
	assert.Empty(t, InCategory(fixture(), 9))
}

func TestSummaryAndCategoryNameFallbacks(t *testing.T) {
	assert.Equal(t, NoSummary, Summary(models.Document{}))
	assert.Equal(t, NoSummary, Summary(models.Document{Summary: "  "}))
	assert.Equal(t, "short", Summary(models.Document{Summary: "short"}))

	cats := []models.Category{{ID: 1, Name: "Ops"}}
	assert.Equal(t, "Ops", CategoryName(cats, 1))
	assert.Equal(t, UnknownCategory, CategoryName(cats, 2))
}

func TestAge(t *testing.T) {
	d := doc(1, "x", 1, 72*time.Hour)
	assert.Equal(t, "3 days ago", Age(d, base))
	assert.Equal(t, UnknownCategory, Age(models.Document{}, base))
}

func TestParseHelpers(t *testing.T) {
	s, err := ParseSort("alphabetical")
	require.NoError(t, err)
	assert.Equal(t, SortAlphabetical, s)
	_, err = ParseSort("size")
	require.ErrorIs(t, err, common.ErrorValidation)

	id, err := ParseCategory("all")
	require.NoError(t, err)
	assert.Zero(t, id)
	id, err = ParseCategory("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	_, err = ParseCategory("-1")
	require.ErrorIs(t, err, common.ErrorValidation)

	assert.Equal(t, "all", DefaultFilter().Category())
	assert.Equal(t, "12", Filter{CategoryID: 12}.Category())
}

func TestCategoryCards(t *testing.T) {
	cats := []models.Category{{ID: 1, Name: "Ops"}, {ID: 2, Name: "Dev"}, {ID: 9, Name: "Empty"}}
	got := CategoryCards(cats, fixture())
	want := []CategoryCard{{1, "Ops", 2}, {2, "Dev", 2}, {9, "Empty", 0}}
	assert.Equal(t, want, got)
}
