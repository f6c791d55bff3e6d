package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
)

var DocsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"documents"},
	Short:   "Manage the documents of a space",
}

var docsYes bool

var docsLsCmd = &cobra.Command{
	Use:   "ls <space>",
	Short: "List the documents of a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsLs,
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <space> <file>...",
	Short: "Upload files to a space for indexing",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocsUpload,
}

var docsRmCmd = &cobra.Command{
	Use:   "rm <space> <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocsRm,
}

func init() {
	docsRmCmd.Flags().BoolVarP(&docsYes, "yes", "y", false, "do not ask for confirmation")

	DocsCmd.AddCommand(docsLsCmd)
	DocsCmd.AddCommand(docsUploadCmd)
	DocsCmd.AddCommand(docsRmCmd)
}

// documentsPage resolves the space and loads its documents.
func documentsPage(ctx context.Context, a *app, ref string) (*pages.Documents, *pages.SpaceLayout, error) {
	api, err := a.signedIn()
	if err != nil {
		return nil, nil, err
	}
	layout, err := a.resolveSpace(ctx, api, ref)
	if err != nil {
		return nil, nil, err
	}
	page := pages.NewDocuments(api.Documents, layout.SpaceID, a.log)
	if err := page.Load(ctx); err != nil {
		return nil, nil, errors.New(page.Error)
	}
	return page, layout, nil
}

func runDocsLs(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, layout, err := documentsPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.TitleStyle.Render(tui.IconFolder+" "+layout.Space.Name))

		rows := page.Rows()
		if len(rows) == 0 {
			fmt.Fprintln(out, tui.RenderInfo("No documents yet. Upload with: rag-engine docs upload <space> <file>..."))
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKIND\tSIZE\tSTATUS\tUPLOADED")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Filename, r.Kind, r.Size, tui.RenderBadge(string(r.Status), r.Badge), r.Uploaded)
			if r.ErrorMessage != nil && *r.ErrorMessage != "" {
				fmt.Fprintf(w, "\t%s\t\t\t\t\n", tui.ErrorStyle.Render(*r.ErrorMessage))
			}
		}
		_ = w.Flush()

		st := page.Stats()
		fmt.Fprintln(out, tui.MutedStyle.Render(fmt.Sprintf("%d documents, %d indexed, %d processing, %d failed",
			st.Total, st.Indexed, st.Processing, st.Failed)))
		return nil
	})
}

func readFiles(paths []string) ([]httpclient.UploadFile, error) {
	files := make([]httpclient.UploadFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, httpclient.UploadFile{Name: filepath.Base(p), Content: content})
	}
	return files, nil
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	files, err := readFiles(args[1:])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, _, err := documentsPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		results, err := page.Upload(ctx, files)
		if err != nil && page.Notice == "" {
			return errors.New(page.Error)
		}
		out := cmd.OutOrStdout()
		for _, r := range results {
			fmt.Fprintln(out, tui.RenderInfo(fmt.Sprintf("%s: %s", r.Filename, r.Message)))
		}
		fmt.Fprintln(out, tui.RenderSuccess(page.Notice))
		if err != nil {
			fmt.Fprintln(out, tui.RenderWarning(page.Error))
		}
		return nil
	})
}

func runDocsRm(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, _, err := documentsPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		deleted, err := page.Delete(ctx, args[1], a.confirmer(docsYes))
		if err != nil {
			return errors.New(page.Error)
		}
		out := cmd.OutOrStdout()
		if !deleted {
			fmt.Fprintln(out, tui.RenderInfo("Cancelled"))
			return nil
		}
		fmt.Fprintln(out, tui.RenderSuccess("Document deleted"))
		return nil
	})
}
