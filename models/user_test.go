package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Ada", "ada"},
		{"spaces become dashes", "Hideo Kojima", "hideo-kojima"},
		{"surrounding whitespace", "  Sam Lake  ", "sam-lake"},
		{"collapses inner whitespace", "John   Romero", "john-romero"},
		{"already a slug", "amy-hennig", "amy-hennig"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
