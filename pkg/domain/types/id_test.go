package types_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func TestProjectID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.ProjectID
		wantErr bool
	}{
		{"valid alphanumeric", "proj1", false},
		{"valid with hyphen", "proj-1", false},
		{"valid with underscore", "proj_1", false},
		{"valid uuid-ish", "a81bc81bbca44cd1a1ae2f1b86ae9d4f", false},
		{"empty", "", true},
		{"spaces", "proj 1", true},
		{"slash", "proj/1", true},
		{"dot", "proj.1", true},
		{"path traversal", "../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
				gt.B(t, errors.Is(err, types.ErrValidationFailed)).True()
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestNewTicketID(t *testing.T) {
	id := types.NewTicketID()
	gt.NoError(t, id.Validate())
	gt.Value(t, id).NotEqual(types.NewTicketID())
}
