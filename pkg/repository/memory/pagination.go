package memory

// defaultPageSize bounds list results when the caller passes no limit
const defaultPageSize = 100

// paginate slices a deterministically-sorted result set by an opaque cursor.
// The cursor is the key of the last item of the previous page; an empty next
// cursor signals exhaustion. A stale cursor (item deleted between pages)
// restarts from the nearest surviving position because keyOf is ordered.
func paginate[T any](items []T, cursor string, limit int, keyOf func(T) string) ([]T, string) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	start := 0
	if cursor != "" {
		for i, item := range items {
			if keyOf(item) > cursor {
				start = i
				break
			}
			start = i + 1
		}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	page := items[start:end]
	next := ""
	if end < len(items) && len(page) > 0 {
		next = keyOf(page[len(page)-1])
	}
	return page, next
}
