package field_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/fatturapa-exporter/internal/field"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"2024-03-15T10:30:00Z", "2024-03-15", true},
		{"2024-03-15T10:30:00", "2024-03-15", true},
		{"15/03/2024", "2024-03-15", true},
		{"15.03.2024", "2024-03-15", true},
		{"5/3/2024", "2024-03-05", true},
		{"March 15, 2024", "2024-03-15", true},
		{"  2024-03-15 ", "2024-03-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"2024-13-45", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := field.ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got.Format(field.DateLayout))
			}
		})
	}
}

func TestDateFallbacks(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15", field.DateOrNow("15/03/2024", now))
	assert.Equal(t, "2026-10-15", field.DateOrNow("garbage", now))
	assert.Equal(t, "2026-10-15", field.DateOrNow("", now))

	assert.Equal(t, "2024-03-15", field.DateOrInput("2024-03-15T00:00:00Z"))
	assert.Equal(t, "garbage", field.DateOrInput("garbage"))
	assert.Equal(t, "", field.DateOrInput(""))
}
