package firestore

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Cursors are opaque to callers. Time-ordered listings encode the last
// document's timestamp and ID ("unixNanos/docID"); number-ordered listings
// encode the last ticket number.

func encodeTimeCursor(t time.Time, docID string) string {
	return strconv.FormatInt(t.UTC().UnixNano(), 10) + "/" + docID
}

func decodeTimeCursor(cursor string) (time.Time, string, error) {
	nanosStr, docID, found := strings.Cut(cursor, "/")
	if !found {
		return time.Time{}, "", goerr.Wrap(types.ErrValidationFailed, "malformed cursor", goerr.V("cursor", cursor))
	}
	nanos, err := strconv.ParseInt(nanosStr, 10, 64)
	if err != nil {
		return time.Time{}, "", goerr.Wrap(types.ErrValidationFailed, "malformed cursor", goerr.V("cursor", cursor))
	}
	return time.Unix(0, nanos).UTC(), docID, nil
}

func encodeNumberCursor(n int64) string {
	return strconv.FormatInt(n, 10)
}

func decodeNumberCursor(cursor string) (int64, error) {
	n, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(types.ErrValidationFailed, "malformed cursor", goerr.V("cursor", cursor))
	}
	return n, nil
}

// defaultPageSize bounds list results when the caller passes no limit
const defaultPageSize = 100

func pageLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return limit
}
