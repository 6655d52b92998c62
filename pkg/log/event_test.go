package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryChange, "CHANGE"},
		{CategoryUnavailable, "UNAVAILABLE"},
		{CategoryCommand, "COMMAND"},
		{Category(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.category.String())
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{CategoryChange, CategoryUnavailable, CategoryCommand} {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCategory("change")
	require.NoError(t, err)
	assert.Equal(t, CategoryChange, got)

	_, err = ParseCategory("frame")
	assert.Error(t, err)
}

func TestEventTarget(t *testing.T) {
	assert.Equal(t, "TIMER0 CTRL", Event{Peripheral: "TIMER0", Register: "CTRL"}.Target())
	assert.Equal(t, "", Event{Command: &CommandEvent{Name: "clear"}}.Target())
}
