package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Phone    Field[string] `json:"phone"`
	Location Field[string] `json:"location"`
}

func TestUnmarshal_DistinguishesAbsentNullValue(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"phone": "555", "location": null}`), &p))

	assert.True(t, p.Phone.Set)
	assert.False(t, p.Phone.Null)
	assert.Equal(t, "555", p.Phone.Value)

	assert.True(t, p.Location.Set)
	assert.True(t, p.Location.Null)

	var q payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &q))
	assert.False(t, q.Phone.Set, "absent key must not read as present")
	assert.False(t, q.Location.Set)
}

func TestApply(t *testing.T) {
	old := "old"
	tests := []struct {
		name  string
		field Field[string]
		want  *string
	}{
		{"absent keeps prior value", Field[string]{}, &old},
		{"null clears", Field[string]{Set: true, Null: true}, nil},
		{"value overwrites", Field[string]{Set: true, Value: "new"}, strptr("new")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := old
			dst := &v
			tt.field.Apply(&dst)
			if tt.want == nil {
				assert.Nil(t, dst)
			} else {
				require.NotNil(t, dst)
				assert.Equal(t, *tt.want, *dst)
			}
		})
	}
}

func TestApply_CopiesValue(t *testing.T) {
	f := Field[string]{Set: true, Value: "v1"}
	var dst *string
	f.Apply(&dst)
	f.Value = "v2"
	require.NotNil(t, dst)
	assert.Equal(t, "v1", *dst, "Apply must not alias the field's value")
}

func strptr(s string) *string { return &s }
