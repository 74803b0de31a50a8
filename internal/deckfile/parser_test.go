package deckfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Pair
	}{
		{
			name:     "single pair",
			input:    "Q: What is the capital of France?\nA: Paris",
			expected: []Pair{{Front: "What is the capital of France?", Back: "Paris"}},
		},
		{
			name: "multiline answer",
			input: `
Q: Primary colors?
A: Red
Blue
Yellow
`,
			expected: []Pair{{Front: "Primary colors?", Back: "Red\nBlue\nYellow"}},
		},
		{
			name: "separator splits pairs",
			input: `
Q: First front
A: First back

---

Q: Second front
A: Second back
`,
			expected: []Pair{
				{Front: "First front", Back: "First back"},
				{Front: "Second front", Back: "Second back"},
			},
		},
		{
			name: "new question starts a new pair without a separator",
			input: `
Q: One
A: 1
Q: Two
A: 2
`,
			expected: []Pair{
				{Front: "One", Back: "1"},
				{Front: "Two", Back: "2"},
			},
		},
		{
			name:     "answer without a front is dropped",
			input:    "A: orphaned answer\n",
			expected: nil,
		},
		{
			name:     "surrounding prose is ignored",
			input:    "# My Deck\n\nSome intro text.\n\nQ: Front\nA: Back\n",
			expected: []Pair{{Front: "Front", Back: "Back"}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pairs)
		})
	}
}

func TestWriteMarkdownRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Front: "hola", Back: "hello"},
		{Front: "adios", Back: "goodbye"},
	}

	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, "Spanish", pairs))

	parsed, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, pairs, parsed)
}
