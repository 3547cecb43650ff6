package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "simple record",
			data: `{"Drinks": {"Tea": {"ingredients": ["Water"], "steps": ["Boil"], "notes": []}}}`,
		},
		{
			name: "advanced record without notes",
			data: `{"Mains": {"Pizza": {"ingredients": {"Dough": ["Flour"]}, "steps": {"Main": ["Bake"]}}}}`,
		},
		{
			name: "empty collection",
			data: `{}`,
		},
		{
			name:    "ingredients as text",
			data:    `{"Drinks": {"Tea": {"ingredients": "Water", "steps": ["Boil"]}}}`,
			wantErr: true,
		},
		{
			name:    "mixed shapes",
			data:    `{"Drinks": {"Tea": {"ingredients": ["Water"], "steps": {"Main": ["Boil"]}}}}`,
			wantErr: true,
		},
		{
			name:    "missing steps",
			data:    `{"Drinks": {"Tea": {"ingredients": ["Water"]}}}`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			data:    `{"Drinks": {"Tea": {"ingredients": [], "steps": [], "serves": 2}}}`,
			wantErr: true,
		},
		{
			name:    "section is not an object",
			data:    `{"Drinks": ["Tea"]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.data))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrSchemaValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Issues)
		})
	}
}

func TestValidateJSONMalformed(t *testing.T) {
	err := ValidateJSON([]byte(`{"Drinks":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaValidation)
}
