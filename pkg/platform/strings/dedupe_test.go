package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil slice", nil, nil},
		{"empty slice", []string{}, []string{}},
		{"trims and drops blanks", []string{"  a ", "", "   ", "b"}, []string{"a", "b"}},
		{"keeps first occurrence", []string{"b", "a", " b", "a "}, []string{"b", "a"}},
		{"case sensitive", []string{"A", "a"}, []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{" 2B5D4B5E-7B0E-4D8A-9A0F-6F1F1C0B9E11", "2b5d4b5e-7b0e-4d8a-9a0f-6f1f1c0b9e11", ""})
	assert.Equal(t, []string{"2b5d4b5e-7b0e-4d8a-9a0f-6f1f1c0b9e11"}, got)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, Split("broker-1:9092, broker-2:9092,,broker-1:9092"))
	assert.Empty(t, Split(""))
}
