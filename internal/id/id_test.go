package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FormatAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 500 {
		v, err := Generate("st")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(v, "st-"), v)
		assert.Len(t, strings.TrimPrefix(v, "st-"), 21)
		assert.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}

func TestFormatRecordID(t *testing.T) {
	assert.Equal(t, "rec_1", FormatRecordID(1))
	assert.Equal(t, "rec_9876543210", FormatRecordID(9876543210))
}

func TestParseRecordID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"rec_123", 123, false},
		{"123", 123, false},
		{" rec_7 ", 7, false},
		{"rec_", 0, true},
		{"rec_abc", 0, true},
		{"0", 0, true},
		{"-4", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRecordID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCursor(t *testing.T) {
	c, ok := ParseCursor("25")
	assert.True(t, ok)
	assert.Equal(t, int64(25), c)

	for _, raw := range []string{"0", "-1"} {
		c, ok := ParseCursor(raw)
		assert.True(t, ok, "cursor %q is numeric", raw)
		assert.LessOrEqual(t, c, int64(0))
	}

	for _, bad := range []string{"", "abc", "rec_25", "1.5"} {
		_, ok := ParseCursor(bad)
		assert.False(t, ok, "cursor %q should be ignored", bad)
	}
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}
