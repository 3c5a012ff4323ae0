package refdata

import "context"

// FindByField returns the first row in table order whose field equals want,
// loading the table if necessary. String comparison folds case when foldCase
// is set; integer and float values compare across kinds. A linear scan is
// deliberate: reference tables are small and read-mostly, so no index is
// maintained.
//
// When the table cannot be loaded the row reports absent and the load error
// is returned; callers that only care about presence may ignore it.
func (c *Cache) FindByField(ctx context.Context, table, field string, want Value, foldCase bool) (Row, bool, error) {
	t, err := c.EnsureLoaded(ctx, table)
	if err != nil {
		return Row{}, false, err
	}
	for row := range t.All() {
		if v, ok := row.Get(field); ok && v.Equal(want, foldCase) {
			return row, true, nil
		}
	}
	return Row{}, false, nil
}
