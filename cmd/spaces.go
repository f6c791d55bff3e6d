package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/pkg/format"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
)

var SpacesCmd = &cobra.Command{
	Use:     "spaces",
	Aliases: []string{"space"},
	Short:   "Manage knowledge spaces",
}

var (
	spacesQuery   string
	spacesYes     bool
	spacesConfirm string
)

var spacesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your spaces",
	Args:  cobra.NoArgs,
	RunE:  runSpacesLs,
}

var spacesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpacesCreate,
}

var spacesRmCmd = &cobra.Command{
	Use:   "rm <space>",
	Short: "Delete a space with all its documents and chat history",
	Long: `Delete a space. You are asked to confirm and then to type the space name.
--yes skips the first question; --confirm-name answers the second.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpacesRm,
}

func init() {
	spacesLsCmd.Flags().StringVarP(&spacesQuery, "query", "q", "", "only spaces whose name or description contains this")
	spacesRmCmd.Flags().BoolVarP(&spacesYes, "yes", "y", false, "do not ask for confirmation")
	spacesRmCmd.Flags().StringVar(&spacesConfirm, "confirm-name", "", "the space name, typed back")

	SpacesCmd.AddCommand(spacesLsCmd)
	SpacesCmd.AddCommand(spacesCreateCmd)
	SpacesCmd.AddCommand(spacesRmCmd)
}

func runSpacesLs(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		api, err := a.signedIn()
		if err != nil {
			return err
		}
		dash := pages.NewDashboard(a.store, api.Spaces, a.log)
		dash.Query = spacesQuery
		if err := dash.Load(ctx); err != nil {
			return errors.New(dash.Error)
		}

		out := cmd.OutOrStdout()
		spaces := dash.Filtered()
		if len(spaces) == 0 {
			if dash.Query != "" {
				fmt.Fprintln(out, tui.RenderInfo("No spaces found"))
			} else {
				fmt.Fprintln(out, tui.RenderInfo("No spaces yet. Create one with: rag-engine spaces create <name>"))
			}
			return nil
		}
		writeSpaces(out, spaces, time.Now())
		return nil
	})
}

func writeSpaces(out io.Writer, spaces []model.Space, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUPDATED")
	for _, s := range spaces {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, format.Truncate(s.Name, 40), s.Status, format.RelativeTime(s.UpdatedAt, now))
	}
	_ = w.Flush()
}

func runSpacesCreate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		api, err := a.signedIn()
		if err != nil {
			return err
		}
		dash := pages.NewDashboard(a.store, api.Spaces, a.log)
		sp, err := dash.Create(ctx, args[0])
		if err != nil {
			return errors.New(dash.Error)
		}
		if sp == nil {
			return errors.New("space name must not be empty")
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess(fmt.Sprintf("Created %q (%s)", sp.Name, sp.ID)))
		return nil
	})
}

func runSpacesRm(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		api, err := a.signedIn()
		if err != nil {
			return err
		}
		layout, err := a.resolveSpace(ctx, api, args[0])
		if err != nil {
			return err
		}

		settings := pages.NewSettings(api.UserConfig, api.Spaces, layout.Space, a.log)
		prompt := tui.Prompter(a.log)
		if spacesConfirm != "" {
			prompt = func(string) (string, bool) { return spacesConfirm, true }
		}
		deleted, err := settings.DeleteWorkspace(ctx, a.confirmer(spacesYes), prompt)
		if err != nil {
			return errors.New(settings.Error)
		}
		out := cmd.OutOrStdout()
		if !deleted {
			fmt.Fprintln(out, tui.RenderInfo("Cancelled"))
			return nil
		}
		fmt.Fprintln(out, tui.RenderSuccess(fmt.Sprintf("Deleted %q", layout.Space.Name)))
		return nil
	})
}
