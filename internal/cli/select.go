package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/selection"
)

// errSelectionAborted is returned when the user leaves without confirming.
var errSelectionAborted = errors.New("selection aborted")

var selectCmd = &cobra.Command{
	Use:   "select [initial]",
	Short: "Interactively pick an endpoint",
	Long: `Pick an endpoint interactively.

Each line read from stdin is one action:
  <url>         replace the draft endpoint; it is checked after a short pause
  <number>      use the saved workspace with that number
  (empty line)  use the draft once its check succeeded
  :use          same as an empty line
  :q            leave without choosing

The chosen endpoint is stored as the last used endpoint.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		initial := ""
		if len(args) == 1 {
			initial = args[0]
		}

		endpoint, err := runSelect(cmd.Context(), eng, initial, cmd.InOrStdin())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"endpoint": endpoint})
		}
		PrintSuccess(fmt.Sprintf("Using endpoint: %s", endpoint))
		return nil
	},
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// selectSession drives a selection.Controller from line-oriented input.
type selectSession struct {
	ctrl        *selection.Controller
	interactive bool
	changed     chan struct{}
	resolved    chan string
}

func runSelect(ctx context.Context, eng *engine.Engine, initial string, in io.Reader) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &selectSession{
		interactive: isTerminal(in),
		changed:     make(chan struct{}, 1),
		resolved:    make(chan string, 1),
	}
	s.ctrl = eng.NewSelection(ctx, &engine.SelectionRequest{
		Initial:    initial,
		OnResolved: func(endpoint string) { s.resolved <- endpoint },
		OnChange:   s.onChange,
	})
	defer s.ctrl.Close()

	s.ctrl.Open()
	if s.interactive {
		s.printSaved()
	}

	scanner := bufio.NewScanner(in)
	for {
		if s.interactive {
			fmt.Fprint(stdout, "> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			return "", errSelectionAborted
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == ":q":
			return "", errSelectionAborted
		case line == "" || line == ":use":
			if err := s.confirm(ctx); err != nil {
				return "", err
			}
		default:
			if n, err := strconv.Atoi(line); err == nil {
				s.choose(n)
			} else {
				s.ctrl.Edit(line)
			}
		}

		select {
		case endpoint := <-s.resolved:
			return endpoint, nil
		default:
		}
	}
}

func (s *selectSession) onChange(snap selection.Snapshot) {
	select {
	case s.changed <- struct{}{}:
	default:
	}

	if s.interactive && !snap.Closed && snap.Draft != "" {
		fmt.Fprintln(stdout)
		PrintValidation(snap.Validation, snap.Draft, snap.State.String())
	}
}

func (s *selectSession) printSaved() {
	saved := s.ctrl.Saved()
	if len(saved) == 0 {
		PrintEmptyState("No saved workspaces. Type an endpoint URL.")
		return
	}
	PrintSection("Saved workspaces")
	for i, ws := range saved {
		PrintInfo(fmt.Sprintf("  %d. %s (%s)", i+1, ws.Endpoint,
			PrintCount(ws.DocumentCount, "document", "documents")))
	}
	fmt.Fprintln(stdout)
}

func (s *selectSession) choose(n int) {
	saved := s.ctrl.Saved()
	if n < 1 || n > len(saved) {
		PrintWarning(fmt.Sprintf("No saved workspace number %d", n))
		return
	}
	s.ctrl.Select(saved[n-1].Endpoint)
}

// confirm waits for a pending check of a URL-shaped draft to finish, then
// confirms. A draft that is not valid by then is reported, not confirmed.
func (s *selectSession) confirm(ctx context.Context) error {
wait:
	for {
		snap := s.ctrl.Snapshot()
		if snap.Closed || !probe.ShapeValid(snap.Draft) ||
			snap.State == selection.StateValid || snap.State == selection.StateInvalid {
			break
		}

		select {
		case <-s.changed:
		case <-s.ctrl.Done():
			break wait
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.ctrl.Confirm() {
		return nil
	}

	snap := s.ctrl.Snapshot()
	switch {
	case snap.Draft == "":
		PrintWarning("Type an endpoint URL or a saved workspace number first")
	case snap.State == selection.StateInvalid:
		PrintError(fmt.Sprintf("%s is not reachable", snap.Draft))
	default:
		PrintWarning(fmt.Sprintf("%s is not an http(s) URL", snap.Draft))
	}
	return nil
}
