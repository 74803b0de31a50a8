package deckfile

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders a deck's pairs as a markdown document in the same
// Q:/A: block format Parse reads, with the deck name as the title.
func WriteMarkdown(w io.Writer, deckName string, pairs []Pair) error {
	var b strings.Builder
	b.WriteString("# " + deckName + "\n")
	for _, pair := range pairs {
		b.WriteString("\n")
		b.WriteString(frontPrefix + " " + pair.Front + "\n")
		b.WriteString(backPrefix + " " + pair.Back + "\n")
		b.WriteString("\n---\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	return nil
}
