// Package cli drives a study session interactively in the terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"mnemo/internal/session"
	"mnemo/internal/srs"
)

var errEnd = errors.New("end")

// StudyCLI runs the reveal/grade/undo loop for one deck's study session.
type StudyCLI struct {
	engine       *session.Engine
	deck         srs.Deck
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

// NewStudyCLI creates a study CLI over an already-built session engine.
func NewStudyCLI(engine *session.Engine, deck srs.Deck) *StudyCLI {
	return &StudyCLI{
		engine:       engine,
		deck:         deck,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

// Run steps the session until the user quits, the queue is exhausted and
// declined, or the context is cancelled. Cancellation tears the session
// down without rolling back committed reviews.
func (cli *StudyCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()
	defer cli.engine.Close()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.step(); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("study session: %w", err)
		}
	}
	return nil
}

// step advances the session by one interaction: show a front, reveal an
// answer, or grade a revealed card.
func (cli *StudyCLI) step() error {
	switch cli.engine.State() {
	case session.StateRecap:
		return cli.recapStep()
	case session.StateAwaitingReveal:
		return cli.revealStep()
	default:
		return cli.gradeStep()
	}
}

func (cli *StudyCLI) revealStep() error {
	card, ok := cli.engine.CurrentCard()
	if !ok {
		return session.ErrNoCurrentCard
	}

	fmt.Fprintf(cli.stdoutWriter, "\nRemaining: %d\n", cli.engine.Remaining()+1)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s\n", card.Front)
	fmt.Fprint(cli.stdoutWriter, "[Enter] reveal · u undo · q quit > ")

	input, err := cli.readLine()
	if err != nil {
		return err
	}
	switch input {
	case "q":
		return errEnd
	case "u":
		return cli.undo()
	default:
		return cli.engine.Reveal()
	}
}

func (cli *StudyCLI) gradeStep() error {
	card, ok := cli.engine.CurrentCard()
	if !ok {
		return session.ErrNoCurrentCard
	}

	_, _ = cli.italic.Fprintf(cli.stdoutWriter, "%s\n", card.Back)
	fmt.Fprint(cli.stdoutWriter, "Grade 0-5 (0=blackout, 5=perfect) · u undo · q quit > ")

	input, err := cli.readLine()
	if err != nil {
		return err
	}
	switch input {
	case "q":
		return errEnd
	case "u":
		return cli.undo()
	}

	grade, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintf(cli.stdoutWriter, "Unknown input %q\n", input)
		return nil
	}
	if err := cli.engine.Grade(grade); err != nil {
		if errors.Is(err, srs.ErrInvalidGrade) {
			fmt.Fprintln(cli.stdoutWriter, err.Error())
			return nil
		}
		return err
	}

	if srs.IsSuccess(grade) {
		fmt.Fprint(cli.stdoutWriter, "✅ ")
		color.New(color.FgGreen).Fprintln(cli.stdoutWriter, "Scheduled ahead.")
	} else {
		fmt.Fprint(cli.stdoutWriter, "❌ ")
		color.New(color.FgRed).Fprintln(cli.stdoutWriter, "Back tomorrow.")
	}
	return nil
}

func (cli *StudyCLI) recapStep() error {
	cli.printRecap()
	fmt.Fprint(cli.stdoutWriter, "Study more (new queue)? [y/N] · u undo > ")

	input, err := cli.readLine()
	if err != nil {
		return err
	}
	if input == "u" {
		return cli.undo()
	}
	if input != "y" && input != "Y" {
		return errEnd
	}

	cli.engine.StudyMore()
	if cli.engine.InRecap() {
		fmt.Fprintln(cli.stdoutWriter, "No more cards to study!")
		return errEnd
	}
	return nil
}

func (cli *StudyCLI) undo() error {
	if err := cli.engine.Undo(); err != nil {
		if errors.Is(err, session.ErrNothingToUndo) {
			fmt.Fprintln(cli.stdoutWriter, "Nothing to undo.")
			return nil
		}
		return err
	}
	fmt.Fprintln(cli.stdoutWriter, "Undid the last review.")
	return nil
}

func (cli *StudyCLI) printRecap() {
	summary := cli.engine.Summary()

	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\nSession recap — %s\n", cli.deck.Name)
	fmt.Fprintf(cli.stdoutWriter,
		"Reviewed %d · Correct %d · Incorrect %d · Accuracy %d%% · Avg time %ds\n",
		summary.Reviewed, summary.Correct, summary.Incorrect(),
		summary.Accuracy(), summary.AvgTimeSeconds(),
	)

	fmt.Fprintln(cli.stdoutWriter, "Grade  Count")
	for grade := srs.MinGrade; grade <= srs.MaxGrade; grade++ {
		fmt.Fprintf(cli.stdoutWriter, "%5d  %5d\n", grade, summary.GradeCounts[grade])
	}
}

func (cli *StudyCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", errEnd
		}
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
