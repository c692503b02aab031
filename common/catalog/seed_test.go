package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.fetcher.set("https://seed.test/existing.csv", "a\n1")
	f.fetcher.set("https://seed.test/new.csv", "a\n1\n2\n3")
	_, _, err := f.c.CreateAndIngest(ctx, "Existing", "https://seed.test/existing.csv", "")
	require.NoError(t, err)

	results, err := f.c.Initialize(ctx, []Seed{
		{Name: "Existing", URL: "https://seed.test/existing.csv"},
		{Name: "New", URL: "https://seed.test/new.csv", Description: "three rows"},
		{Name: "Broken", URL: "https://seed.test/broken.csv"},
		{Name: "", URL: "https://seed.test/unnamed.csv"},
	})
	require.NoError(t, err)

	assert.Equal(t, []SeedResult{
		{Name: "Existing", Status: SeedSkipped, Message: "Already exists"},
		{Name: "New", Status: SeedSuccess, Message: "Created with 3 rows", RowsInserted: 3},
		{Name: "Broken", Status: SeedError, Message: "Failed to fetch CSV: Not Found"},
		{Name: "", Status: SeedError, Message: "Name and URL are required"},
	}, results)

	// existing + new + broken (kept with zero rows)
	assert.Equal(t, 3, f.sources.count())
}

func TestInitializeTwiceSkipsEverything(t *testing.T) {
	f := newFixture()
	f.fetcher.set("https://seed.test/a.csv", "a\n1")
	seeds := []Seed{{Name: "A", URL: "https://seed.test/a.csv"}}

	_, err := f.c.Initialize(context.Background(), seeds)
	require.NoError(t, err)
	results, err := f.c.Initialize(context.Background(), seeds)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, SeedSkipped, results[0].Status)
}

func TestInitializeStopsOnCancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := f.c.Initialize(ctx, []Seed{{Name: "A", URL: "https://seed.test/a.csv"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
