package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "test_data",
			expected: "test_data",
		},
		{
			name:     "string with whitespace",
			input:    "  test_data  ",
			expected: "test_data",
		},
		{
			name:     "string with newline",
			input:    "test\ndata",
			expected: "testdata",
		},
		{
			name:     "string with tab",
			input:    "test\tdata",
			expected: "testdata",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "test\x00data\x01",
			expected: "testdata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRouteCallback(t *testing.T) {
	tests := []struct {
		name     string
		unique   string
		data     string
		expected callbackRoute
	}{
		{name: "practice by unique", unique: "practice", expected: routePractice},
		{name: "stats by data", data: "stats", expected: routeStats},
		{name: "level menu", unique: "level", expected: routeLevelMenu},
		{name: "cancel", data: "cancel", expected: routeCancel},
		{name: "main menu", unique: "main_menu", expected: routeMainMenu},
		{name: "assessment", data: "assess_good", expected: routeAssessment},
		{name: "level selection", data: "level_3", expected: routeSetLevel},
		{name: "unknown", data: "day_20240101", expected: routeUnknown},
		{name: "empty", expected: routeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeCallback(tt.unique, tt.data))
		})
	}
}
