package catalog

import (
	"context"
	"fmt"
)

// Seed is a permanent source created by Initialize.
type Seed struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

const (
	SeedSkipped = "skipped"
	SeedError   = "error"
	SeedSuccess = "success"
)

// SeedResult reports what Initialize did with one seed.
type SeedResult struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	RowsInserted int    `json:"rowsInserted,omitempty"`
}

// Initialize creates every seed whose URL is not registered yet. Seeds are
// processed in order and one failing seed does not stop the others.
func (c *Coordinator) Initialize(ctx context.Context, seeds []Seed) ([]SeedResult, error) {
	results := make([]SeedResult, 0, len(seeds))
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		_, report, err := c.CreateAndIngest(ctx, seed.Name, seed.URL, seed.Description)
		switch {
		case err == nil:
			results = append(results, SeedResult{
				Name:         seed.Name,
				Status:       SeedSuccess,
				Message:      fmt.Sprintf("Created with %d rows", report.InsertedCount),
				RowsInserted: report.InsertedCount,
			})
		case KindOf(err) == KindConflict:
			results = append(results, SeedResult{Name: seed.Name, Status: SeedSkipped, Message: "Already exists"})
		default:
			results = append(results, SeedResult{Name: seed.Name, Status: SeedError, Message: PublicMessage(err)})
		}
	}
	return results, nil
}
