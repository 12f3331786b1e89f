package model_test

import (
	"sort"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func ptr(f float64) *float64 { return &f }

func TestOrderBetween(t *testing.T) {
	tests := []struct {
		name string
		prev *float64
		next *float64
		want float64
	}{
		{
			name: "empty column",
			prev: nil,
			next: nil,
			want: 0,
		},
		{
			name: "insert at head goes below current minimum",
			prev: nil,
			next: ptr(1.0),
			want: 0.0,
		},
		{
			name: "insert at tail",
			prev: ptr(3.0),
			next: nil,
			want: 4.0,
		},
		{
			name: "insert between takes midpoint",
			prev: ptr(1.0),
			next: ptr(2.0),
			want: 1.5,
		},
		{
			name: "second insert between halves again",
			prev: ptr(1.0),
			next: ptr(1.5),
			want: 1.25,
		},
		{
			name: "negative head keeps descending",
			prev: nil,
			next: ptr(-2.0),
			want: -3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Number(t, model.OrderBetween(tt.prev, tt.next)).Equal(tt.want)
		})
	}
}

func TestOrderAtTail(t *testing.T) {
	gt.Number(t, model.OrderAtTail(nil)).Equal(0)
	gt.Number(t, model.OrderAtTail([]float64{2, 0, 1})).Equal(3)
}

func TestSamePlacement(t *testing.T) {
	ticket := &model.Ticket{Status: types.TicketStatusTodo, Order: 1.5}
	gt.B(t, model.SamePlacement(ticket, types.TicketStatusTodo, 1.5)).True()
	gt.B(t, model.SamePlacement(ticket, types.TicketStatusTodo, 1.25)).False()
	gt.B(t, model.SamePlacement(ticket, types.TicketStatusDone, 1.5)).False()
}

func TestNeedsRebalance(t *testing.T) {
	tests := []struct {
		name   string
		orders []float64
		want   bool
	}{
		{"integers are fine", []float64{0, 1, 2, 3}, false},
		{"one midpoint is fine", []float64{1, 1.5, 2}, false},
		{"four digits is fine", []float64{1.0625}, false},
		{"exhausted precision triggers", []float64{1.03125}, true},
		{"deep halving triggers", []float64{1.0000152587890625}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, model.NeedsRebalance(tt.orders)).True()
			} else {
				gt.B(t, model.NeedsRebalance(tt.orders)).False()
			}
		})
	}
}

// Repeated midpoint insertions must keep the intended relative sequence, and
// a rebalance must reproduce it exactly with integer keys.
func TestRebalancePreservesRelativeOrder(t *testing.T) {
	column := []*model.Ticket{
		{ID: "t1", Number: 1, Status: types.TicketStatusTodo, Order: 0},
		{ID: "t2", Number: 2, Status: types.TicketStatusTodo, Order: 1},
	}

	// squeeze tickets into the same gap until precision is nearly gone
	prev, next := column[0].Order, column[1].Order
	for i := 3; i <= 10; i++ {
		mid := model.OrderBetween(&prev, &next)
		column = append(column, &model.Ticket{
			ID:     types.TicketID(string(rune('a' + i))),
			Number: int64(i),
			Status: types.TicketStatusTodo,
			Order:  mid,
		})
		next = mid
	}

	bySequence := make([]*model.Ticket, len(column))
	copy(bySequence, column)
	sort.SliceStable(bySequence, func(i, j int) bool {
		return bySequence[i].Order < bySequence[j].Order
	})

	rebalanced := model.Rebalance(column)
	gt.Number(t, len(rebalanced)).Equal(len(column))

	// new keys are consecutive integers in the same relative sequence
	for i, ticket := range bySequence {
		gt.Number(t, rebalanced[ticket.ID]).Equal(float64(i))
	}
}

func TestRebalanceScopesColumns(t *testing.T) {
	tickets := []*model.Ticket{
		{ID: "a", Number: 1, Status: types.TicketStatusTodo, Order: 5.5},
		{ID: "b", Number: 2, Status: types.TicketStatusTodo, Order: 2.25},
		{ID: "c", Number: 3, Status: types.TicketStatusDone, Order: 9},
	}

	rebalanced := model.Rebalance(tickets)
	gt.Number(t, rebalanced["b"]).Equal(0)
	gt.Number(t, rebalanced["a"]).Equal(1)
	// done column restarts from zero
	gt.Number(t, rebalanced["c"]).Equal(0)
}
