package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	docs    []models.Document
	cats    []models.Category
	docsErr error
	catsErr error
	tokens  []string

	// block, when set, holds ListDocuments until closed.
	block chan struct{}
}

func (f *fakeFetcher) ListDocuments(ctx context.Context, token string) ([]models.Document, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.docs, f.docsErr
}

func (f *fakeFetcher) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	return f.cats, f.catsErr
}

func sample() *fakeFetcher {
	return &fakeFetcher{
		docs: []models.Document{
			{ID: 1, Title: "A", CategoryID: 1, Tags: []string{"x"}},
			{ID: 2, Title: "B", CategoryID: 1},
			{ID: 3, Title: "C", CategoryID: 2},
		},
		cats: []models.Category{
			{ID: 1, Name: "Ops", Subcategories: []models.Subcategory{{ID: 10, Name: "K8s"}, {ID: 11, Name: "CI"}}},
			{ID: 2, Name: "Dev", Subcategories: []models.Subcategory{{ID: 20, Name: "Go"}}},
			{ID: 3, Name: "Empty"},
		},
	}
}

func TestRefresh_PopulatesSnapshot(t *testing.T) {
	f := sample()
	c := New(f, nil)
	require.NoError(t, c.Refresh(context.Background(), "tok"))

	assert.Len(t, c.Documents(), 3)
	assert.Len(t, c.Categories(), 3)
	assert.Equal(t, 2, c.DocumentCount(1))
	assert.Equal(t, 0, c.DocumentCount(3))
	assert.Equal(t, 3, c.SubcategoryCount())
	assert.Equal(t, "Dev", c.CategoryName(2))
	assert.Empty(t, c.CategoryName(99))
	assert.Equal(t, []string{"tok"}, f.tokens)

	d, ok := c.Document(3)
	require.True(t, ok)
	assert.Equal(t, "C", d.Title)
	_, ok = c.Document(42)
	assert.False(t, ok)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	f := sample()
	c := New(f, nil)
	require.NoError(t, c.Refresh(context.Background(), "tok"))

	sentinel := errors.New("categories down")
	f.docs = []models.Document{{ID: 9}}
	f.catsErr = sentinel

	err := c.Refresh(context.Background(), "tok")
	require.ErrorIs(t, err, sentinel)

	// neither half of the failed refresh is applied
	assert.Len(t, c.Documents(), 3)
	assert.Len(t, c.Categories(), 3)
	assert.False(t, c.Loading())
}

func TestReadersGetCopies(t *testing.T) {
	c := New(sample(), nil)
	require.NoError(t, c.Refresh(context.Background(), "tok"))

	docs := c.Documents()
	docs[0].Title = "mutated"
	docs[0].Tags[0] = "mutated"

	cats := c.Categories()
	cats[0].Subcategories[0].Name = "mutated"

	d, _ := c.Document(1)
	assert.Equal(t, "A", d.Title)
	assert.Equal(t, []string{"x"}, d.Tags)

	cat, _ := c.Category(1)
	assert.Equal(t, "K8s", cat.Subcategories[0].Name)
}

func TestLoadingDuringRefresh(t *testing.T) {
	f := sample()
	f.block = make(chan struct{})
	c := New(f, nil)

	done := make(chan error)
	go func() { done <- c.Refresh(context.Background(), "tok") }()

	require.Eventually(t, c.Loading, time.Second, time.Millisecond)
	close(f.block)
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
}

func TestClear(t *testing.T) {
	c := New(sample(), nil)
	require.NoError(t, c.Refresh(context.Background(), "tok"))
	c.Clear()
	assert.Empty(t, c.Documents())
	assert.Empty(t, c.Categories())
	assert.Zero(t, c.SubcategoryCount())
}
