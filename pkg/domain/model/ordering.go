package model

import (
	"math"
	"sort"

	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// Fractional indexing for Kanban placement: dropping a ticket between two
// neighbors takes the arithmetic midpoint of their order keys, so a
// reposition touches one row instead of renumbering the column. Repeated
// midpoint insertion shrinks the gap between adjacent keys; once any key
// needs more than orderPrecisionDigits decimal digits the board should be
// rebalanced back to consecutive integers. Rebalancing is a maintenance
// operation, not a correctness requirement.

// orderPrecisionDigits is the fractional depth after which a board rebalance
// is recommended.
const orderPrecisionDigits = 4

// OrderBetween computes the order key for a drop between two neighbors in a
// column. prev is the ticket above the drop point and next the ticket below;
// nil means the drop is at the head or tail respectively.
func OrderBetween(prev, next *float64) float64 {
	switch {
	case prev == nil && next == nil:
		// empty column
		return 0
	case prev == nil:
		// head: next is the current minimum of the column
		return *next - 1
	case next == nil:
		// tail
		return *prev + 1
	default:
		return (*prev + *next) / 2
	}
}

// OrderAtTail computes the order key for appending to a column given the
// current keys of that column.
func OrderAtTail(orders []float64) float64 {
	if len(orders) == 0 {
		return 0
	}
	maxOrder := orders[0]
	for _, o := range orders[1:] {
		if o > maxOrder {
			maxOrder = o
		}
	}
	return maxOrder + 1
}

// SamePlacement reports whether moving the ticket to the given status and
// order would change nothing. Such a drop is a no-op, not an error.
func SamePlacement(t *Ticket, status types.TicketStatus, order float64) bool {
	return t.Status == status && t.Order == order
}

// NeedsRebalance reports whether any order key has consumed more fractional
// precision than orderPrecisionDigits decimal digits.
func NeedsRebalance(orders []float64) bool {
	const scale = 1e4 // 10^orderPrecisionDigits
	for _, o := range orders {
		scaled := o * scale
		if math.Abs(scaled-math.Round(scaled)) > 1e-9*math.Max(1, math.Abs(scaled)) {
			return true
		}
	}
	return false
}

// Rebalance computes fresh integer order keys for an entire board snapshot.
// Tickets are grouped by status column and assigned consecutive integers in
// their current sort order, so the relative sequence within every column is
// preserved exactly; only precision changes. Ties on order fall back to the
// ticket number so the result is deterministic.
func Rebalance(tickets []*Ticket) map[types.TicketID]float64 {
	columns := make(map[types.TicketStatus][]*Ticket)
	for _, t := range tickets {
		columns[t.Status] = append(columns[t.Status], t)
	}

	result := make(map[types.TicketID]float64, len(tickets))
	for _, column := range columns {
		sort.SliceStable(column, func(i, j int) bool {
			if column[i].Order != column[j].Order {
				return column[i].Order < column[j].Order
			}
			return column[i].Number < column[j].Number
		})
		for i, t := range column {
			result[t.ID] = float64(i)
		}
	}
	return result
}
