package memory

import (
	"fmt"
	"math"
	"time"
)

// ascKey builds a fixed-width, lexicographically sortable cursor key for
// oldest-first listings.
func ascKey(t time.Time, id string) string {
	return fmt.Sprintf("%019d/%s", t.UTC().UnixNano(), id)
}

// descKey builds a cursor key that sorts newest first while remaining
// lexicographically ascending.
func descKey(t time.Time, id string) string {
	return fmt.Sprintf("%019d/%s", math.MaxInt64-t.UTC().UnixNano(), id)
}
