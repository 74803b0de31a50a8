// Package deckfile reads and writes decks as markdown files of Q:/A: blocks.
// The engine itself only ever sees the {front, back} pairs; all formatting
// lives here.
package deckfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
)

// Pair is one prompt/answer pair exchanged with the engine.
type Pair struct {
	Front string
	Back  string
}

type parseState int

const (
	seeking parseState = iota
	readingFront
	readingBack
)

// ParseFile reads the markdown deck at path and extracts all pairs.
func ParseFile(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(file)
}

// Parse extracts all pairs from r. A pair starts at a "Q:" line and its
// answer at the following "A:" line; either side may continue over multiple
// lines until the next marker, a "---" separator, or the next "Q:". Blocks
// without a front are dropped.
func Parse(r io.Reader) ([]Pair, error) {
	scanner := bufio.NewScanner(r)

	var pairs []Pair
	var current Pair
	var block []string
	state := seeking

	closeBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch state {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		}
		block = nil
	}
	finishPair := func() {
		closeBlock()
		if current.Front != "" {
			pairs = append(pairs, current)
		}
		current = Pair{}
		state = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.TrimSpace(line) == "---":
			finishPair()
		case strings.HasPrefix(line, frontPrefix):
			finishPair()
			state = readingFront
			block = append(block, strings.TrimPrefix(line, frontPrefix))
		case strings.HasPrefix(line, backPrefix):
			closeBlock()
			state = readingBack
			block = append(block, strings.TrimPrefix(line, backPrefix))
		case state != seeking:
			block = append(block, line)
		}
	}
	finishPair()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err() > %w", err)
	}
	return pairs, nil
}
