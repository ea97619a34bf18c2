package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/cli"
	"github.com/bnema/termdeck/internal/cli/styles"
	"github.com/bnema/termdeck/internal/domain/entity"
)

var (
	layoutOutput    string
	layoutOverwrite bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Manage saved layouts",
	Long: `List, inspect, export and import the layouts termdeck saves between runs.

Layouts are exported as YAML so they can be edited by hand and imported again.`,
}

var layoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved layouts, newest first",
	RunE:    runLayoutList,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved layout (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLayoutShow,
}

var layoutExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved layout as YAML (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLayoutExport,
}

var layoutImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a YAML layout ('-' reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutImport,
}

var layoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutDelete,
}

var layoutClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved layout",
	RunE:  runLayoutClear,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutListCmd, layoutShowCmd, layoutExportCmd, layoutImportCmd, layoutDeleteCmd, layoutClearCmd)
	layoutExportCmd.Flags().StringVarP(&layoutOutput, "output", "o", "", "write to file instead of stdout")
	layoutImportCmd.Flags().BoolVar(&layoutOverwrite, "overwrite", false, "replace a saved layout with the same id")
}

func runLayoutList(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	items, err := app.ListUC.Execute(app.Ctx())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewLayoutRenderer(app.Theme).RenderList(items))
	return nil
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	st, err := loadLayout(app, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewLayoutRenderer(app.Theme).RenderState(st))
	return nil
}

func runLayoutExport(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	st, err := loadLayout(app, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if layoutOutput != "" {
		f, err := os.Create(layoutOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", layoutOutput, err)
		}
		defer f.Close()
		out = f
	}
	return encodeLayout(out, st)
}

func runLayoutImport(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	st, err := decodeLayout(in)
	if err != nil {
		return err
	}

	saved, err := app.ImportUC.Execute(app.Ctx(), usecase.ImportInput{State: st, Overwrite: layoutOverwrite})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d panes)\n", saved.ID, saved.CountPanes())
	return nil
}

func runLayoutDelete(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := app.RestoreUC.DeleteSnapshot(app.Ctx(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func runLayoutClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	items, err := app.ListUC.Execute(app.Ctx())
	if err != nil {
		return err
	}
	var errs []error
	for _, it := range items {
		if err := app.RestoreUC.DeleteSnapshot(app.Ctx(), it.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", it.ID, err))
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d layouts\n", len(items)-len(errs))
	return errors.Join(errs...)
}

// loadLayout returns the snapshot named by args, or the latest one.
func loadLayout(app *cli.App, args []string) (*entity.WorkspaceState, error) {
	var id string
	if len(args) > 0 {
		id = args[0]
	}
	out, err := app.RestoreUC.Execute(app.Ctx(), usecase.RestoreInput{WorkspaceID: id})
	if err != nil {
		return nil, err
	}
	return out.State, nil
}

func encodeLayout(w io.Writer, st *entity.WorkspaceState) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return enc.Close()
}

func decodeLayout(r io.Reader) (*entity.WorkspaceState, error) {
	var st entity.WorkspaceState
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&st); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &st, nil
}
