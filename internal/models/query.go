package models

import "sort"

// DefaultLimit is the page size used when a listing does not ask for one.
const DefaultLimit = 10

// Query filters, orders and paginates apps the way the backend listing does.
// apps is not modified.
func Query(apps []Application, f Filters) ListResult {
	filtered := make([]Application, 0, len(apps))
	for _, a := range apps {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		filtered = append(filtered, a)
	}

	if name, ok := SortField(f.OrderBy); ok {
		desc := f.Descending()
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := filtered[i].FieldValue(name), filtered[j].FieldValue(name)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	page := []Application{}
	if offset < len(filtered) {
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		page = filtered[offset:end]
	}

	return ListResult{
		Applications: page,
		Total:        len(filtered),
		Page:         offset/limit + 1,
		Limit:        limit,
	}
}
