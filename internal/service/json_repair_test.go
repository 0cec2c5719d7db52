package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean object passes through",
			input:    `{"title": "Quiz"}`,
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "strips json code fence",
			input:    "```json\n{\"title\": \"Quiz\"}\n```",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "strips bare code fence",
			input:    "```\n{\"title\": \"Quiz\"}\n```",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "drops prose around the object",
			input:    "Here is your quiz:\n{\"title\": \"Quiz\"}\nLet me know if you need more.",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "removes trailing comma in object",
			input:    `{"title": "Quiz", "questions": [],}`,
			expected: `{"title": "Quiz", "questions": []}`,
		},
		{
			name:     "removes trailing comma in array",
			input:    `{"options": ["a", "b",]}`,
			expected: `{"options": ["a", "b"]}`,
		},
		{
			name:     "no object returns empty",
			input:    "I could not generate a quiz from that material.",
			expected: "",
		},
		{
			name:     "empty input returns empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepairJSON(tt.input))
		})
	}
}

func TestRepairJSONProducesParseableOutput(t *testing.T) {
	raw := "```json\n{\n  \"title\": \"Quiz\",\n  \"questions\": [\n    {\"text\": \"q\", \"options\": [\"a\", \"b\",], \"correct_answer_index\": 0},\n  ]\n}\n```"

	repaired := RepairJSON(raw)

	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(repaired), &out))
	assert.Equal(t, "Quiz", out["title"])
}
