package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/selection"
)

var checkCmd = &cobra.Command{
	Use:   "check <endpoint>",
	Short: "Probe an endpoint once",
	Long: `Send a minimal introspection query to an endpoint and report whether it
answers. Any HTTP status below 400 counts as reachable.

Strings that do not look like an http(s) URL are reported as unknown and
are never sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Check(context.Background(), &engine.CheckRequest{Endpoint: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else {
			PrintValidation(validationOf(result.Validation), result.Endpoint, result.Message)
		}

		if result.Validation == selection.ValidationInvalid.String() {
			return fmt.Errorf("%w: %s", engine.ErrNotReachable, result.Endpoint)
		}
		return nil
	},
}

func validationOf(name string) selection.Validation {
	switch name {
	case selection.ValidationValid.String():
		return selection.ValidationValid
	case selection.ValidationInvalid.String():
		return selection.ValidationInvalid
	default:
		return selection.ValidationUnknown
	}
}
