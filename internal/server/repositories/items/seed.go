package items

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
)

// SeedIDs are the stable fixture identifiers, in name order A..G.
var SeedIDs = []string{
	"27e7f459-3127-4c03-b09e-be2a7f849f6e",
	"55f36112-3451-4505-8bde-1a33d99e1fa8",
	"63f04d2c-7b9f-40ac-92ab-1b0fa4f76b6d",
	"9c35962a-9c60-42b7-ad8d-71acffab8159",
	"f0f6818b-5723-43a4-82ec-89105930e9c4",
	"f69c9aab-3b13-4e1d-9a54-e12d45b4aa7a",
	"fd09ea8a-dae1-485e-9fa0-a10e834a36db",
}

// SeedItems returns the fixture rows, all stamped with at.
func SeedItems(at time.Time) []models.Item {
	out := make([]models.Item, len(SeedIDs))
	for i, id := range SeedIDs {
		letter := string(rune('A' + i))
		out[i] = models.Item{
			ItemID:      id,
			Name:        letter,
			Description: fmt.Sprintf("This is item %s", letter),
			Updated:     at,
		}
	}
	return out
}
