package validator

import (
	"testing"

	"github.com/cockroachdb/errors"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Day  string `json:"day" validate:"required,datetime=2006-01-02"`
	Kind string `json:"kind" validate:"required,oneof=a b"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name string
		req  sample
		hint string
	}{
		{name: "valid", req: sample{Day: "2024-03-01", Kind: "a"}},
		{name: "missing day", req: sample{Kind: "a"}, hint: "day is required"},
		{name: "bad date", req: sample{Day: "01.03.2024", Kind: "b"}, hint: "day must be a date in YYYY-MM-DD format"},
		{name: "bad kind", req: sample{Day: "2024-03-01", Kind: "c"}, hint: "kind must be one of: a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(&tt.req)
			if tt.hint == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			assert.Equal(t, []string{tt.hint}, errors.GetAllHints(err))
		})
	}
}
