package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/omegasovereign/omega/gate/internal/axiom"
	"github.com/omegasovereign/omega/gate/internal/ghost"
)

// ErrAborted is returned by a Prompter when the operator interrupts input.
var ErrAborted = errors.New("session: aborted")

// Prompter reads one line of operator input after showing prompt.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Validator is the subset of *axiom.Gate the session needs.
type Validator interface {
	Validate(ctx context.Context, intent, operatorSigil string) axiom.Result
	Identity() string
}

// Appender persists ghost records.
type Appender interface {
	Append(ghost.Record) error
}

// Session runs one interactive validate-then-track exchange.
type Session struct {
	Gate    Validator
	Tracker *ghost.Tracker
	Log     Appender
	In      Prompter
	Out     io.Writer
	Now     func() time.Time
}

var (
	banner  = color.New(color.FgCyan, color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	fail    = color.New(color.FgRed).SprintFunc()
)

const rule = "======================================================================"

// Run drives the exchange. It returns nil when the operator supplies no
// intent or aborts at a prompt; only a ghost log failure is an error.
func (s *Session) Run(ctx context.Context) error {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	fmt.Fprintln(s.Out, banner(rule))
	fmt.Fprintln(s.Out, banner("OMEGA SOVEREIGN - AXIOM GATE"))
	fmt.Fprintln(s.Out, banner(rule))

	fmt.Fprintln(s.Out, "\nEnter your intent:")
	intent, err := s.prompt()
	if err != nil {
		return s.aborted(err)
	}
	if intent == "" {
		fmt.Fprintln(s.Out, fail("Intent cannot be empty."))
		return nil
	}

	fmt.Fprintln(s.Out, "\nEnter your commander sigil (leave blank for default):")
	sigil, err := s.prompt()
	if err != nil {
		return s.aborted(err)
	}

	fmt.Fprintln(s.Out, "\nValidating...")
	res := s.Gate.Validate(ctx, intent, sigil)
	report := axiom.Report(res, s.Gate.Identity())
	if res.Authorized {
		fmt.Fprint(s.Out, success(report))
	} else {
		fmt.Fprint(s.Out, warn(report))
	}

	if res.Authorized {
		if err := s.track(res, now); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.Out, "\n"+banner(rule))
	fmt.Fprintln(s.Out, banner("MISSION COMPLETE"))
	fmt.Fprintf(s.Out, "COVENANT SEALED: %s\n", res.Seal)
	fmt.Fprintln(s.Out, banner(rule))
	return nil
}

func (s *Session) track(res axiom.Result, now func() time.Time) error {
	fmt.Fprintln(s.Out, "\nAUTHORIZED - proceeding to ghost tracking")
	fmt.Fprintln(s.Out, "Enter target identifier (ID, phone, email, etc.):")
	target, err := s.prompt()
	if err != nil {
		return s.aborted(err)
	}
	if target == "" {
		return nil
	}

	id := s.Tracker.GhostID(target)
	rec := ghost.NewRecord(target, id, res.Seal, s.Gate.Identity(), now())
	fmt.Fprintln(s.Out, success("\nGHOST IDENTIFIED:"))
	fmt.Fprintf(s.Out, "  Target:    %s\n", rec.Target)
	fmt.Fprintf(s.Out, "  Ghost ID:  %s\n", rec.GhostID)
	fmt.Fprintf(s.Out, "  Sovereign: %s\n", rec.Sovereign)

	if err := s.Log.Append(rec); err != nil {
		return fmt.Errorf("session: record ghost: %w", err)
	}
	slog.Info("session: ghost recorded", "ghost_id", id)
	fmt.Fprintln(s.Out, "Saved to ghost log")
	return nil
}

func (s *Session) prompt() (string, error) {
	line, err := s.In.Prompt("  > ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) aborted(err error) error {
	if errors.Is(err, ErrAborted) || errors.Is(err, io.EOF) {
		fmt.Fprintln(s.Out, warn("\nSession aborted."))
		return nil
	}
	return fmt.Errorf("session: read input: %w", err)
}
