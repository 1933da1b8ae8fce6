package items

import (
	"fmt"

	"github.com/dmitrijs2005/itemkeeper/internal/resultset"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
)

func itemFromRecord(rec resultset.Record) (models.Item, error) {
	var (
		it  models.Item
		err error
	)
	if it.ItemID, err = rec.String("itemid"); err != nil {
		return it, err
	}
	if it.Name, err = rec.String("name"); err != nil {
		return it, err
	}
	if it.Description, err = rec.String("description"); err != nil {
		return it, err
	}
	if it.Updated, err = rec.Time("updated"); err != nil {
		return it, err
	}
	it.Updated = it.Updated.UTC()
	return it, nil
}

func itemsFromResult(res resultset.Result) ([]models.Item, error) {
	out := make([]models.Item, 0, res.Len())
	for i, rec := range res.Records {
		it, err := itemFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, it)
	}
	return out, nil
}

// singleItem maps a result expected to hold at most one row.
func singleItem(res resultset.Result) (*models.Item, error) {
	rec := res.First()
	if rec == nil {
		return nil, nil
	}
	it, err := itemFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
