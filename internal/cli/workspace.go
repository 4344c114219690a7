package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
)

// workspaceCmd is the parent command for saved workspace management.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage saved workspaces",
	Long:  `Manage the saved workspaces whose endpoints are offered for selection.`,
}

var workspaceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.ListSaved(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Workspaces) == 0 {
			PrintEmptyState("No saved workspaces")
			return nil
		}

		rows := make([][]string, 0, len(result.Workspaces))
		for i, ws := range result.Workspaces {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				ws.Endpoint,
				PrintCount(ws.DocumentCount, "document", "documents"),
			})
		}
		PrintTable([]string{"#", "ENDPOINT", "DOCUMENTS"}, rows)
		return nil
	},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <endpoint>",
	Short: "Save a reachable endpoint as a workspace",
	Long: `Check an endpoint and save it as an empty workspace so it is offered for
selection. An existing workspace is left as it is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.AddWorkspace(context.Background(), &engine.AddWorkspaceRequest{Endpoint: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		if !result.Created {
			PrintInfo(fmt.Sprintf("Workspace already saved: %s", result.Endpoint))
			return nil
		}
		PrintSuccess(fmt.Sprintf("Saved workspace: %s", result.Endpoint))
		return nil
	},
}

var workspaceRmCmd = &cobra.Command{
	Use:   "rm <endpoint>",
	Short: "Delete a saved workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		if err := eng.RemoveWorkspace(context.Background(), &engine.RemoveWorkspaceRequest{Endpoint: args[0]}); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"removed": args[0]})
		}
		PrintSuccess(fmt.Sprintf("Deleted workspace: %s", args[0]))
		return nil
	},
}

var workspaceImportMerge bool

var workspaceImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a workspaces snapshot",
	Long: `Import a JSON snapshot of the form {"workspaces": {"<endpoint>": {"docs": [...]}}}.

The stored workspaces are replaced unless --merge is given. Use "-" to read
the snapshot from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.ImportWorkspaces(context.Background(), &engine.ImportWorkspacesRequest{
			Data:  data,
			Merge: workspaceImportMerge,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Imported %s (%d stored)",
			PrintCount(result.Imported, "workspace", "workspaces"), result.Total))
		return nil
	},
}

func init() {
	workspaceImportCmd.Flags().BoolVar(&workspaceImportMerge, "merge", false, "Keep stored workspaces not in the snapshot")

	workspaceCmd.AddCommand(workspaceLsCmd)
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceRmCmd)
	workspaceCmd.AddCommand(workspaceImportCmd)
}
