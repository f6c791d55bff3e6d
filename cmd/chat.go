package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
)

var (
	chatQuestion string
	chatYes      bool
	chatOutput   string
)

var ChatCmd = &cobra.Command{
	Use:   "chat <space>",
	Short: "Ask questions about the documents of a space",
	Long: `Open the interactive chat of a space, or ask a single question with -q.

Subcommands:
  history  print the conversation
  clear    delete the conversation
  export   write the conversation as markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history <space>",
	Short: "Print the chat history of a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatHistory,
}

var chatClearCmd = &cobra.Command{
	Use:   "clear <space>",
	Short: "Clear the chat history of a space",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatClear,
}

var chatExportCmd = &cobra.Command{
	Use:   "export <space>",
	Short: "Export the chat history as markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatExport,
}

func init() {
	ChatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "ask one question and print the answer")
	chatClearCmd.Flags().BoolVarP(&chatYes, "yes", "y", false, "do not ask for confirmation")
	chatExportCmd.Flags().StringVarP(&chatOutput, "output", "o", "", "write to this file instead of stdout")

	ChatCmd.AddCommand(chatHistoryCmd)
	ChatCmd.AddCommand(chatClearCmd)
	ChatCmd.AddCommand(chatExportCmd)
}

// chatPage resolves the space and loads its history.
func chatPage(ctx context.Context, a *app, ref string) (*pages.Chat, *pages.SpaceLayout, error) {
	api, err := a.signedIn()
	if err != nil {
		return nil, nil, err
	}
	layout, err := a.resolveSpace(ctx, api, ref)
	if err != nil {
		return nil, nil, err
	}
	page := pages.NewChat(api.Chat, layout.SpaceID, a.log)
	if err := page.Load(ctx); err != nil {
		return nil, nil, errors.New(page.ErrorMessage())
	}
	return page, layout, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, layout, err := chatPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		if chatQuestion == "" {
			api, err := a.api()
			if err != nil {
				return err
			}
			return tui.RunChat(ctx, layout.Space.Name, page, api.Chat.Send)
		}

		if _, err := page.Submit(ctx, chatQuestion); err != nil {
			return errors.New(page.ErrorMessage())
		}
		entries := page.Entries()
		if len(entries) == 0 {
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, entries[len(entries)-1].Message.Content)
		writeSources(out, page.Sources())
		return nil
	})
}

func writeSources(out io.Writer, sources []model.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.SubtitleStyle.Render("Sources"))
	for i, s := range sources {
		name := s.Filename()
		if name == "" {
			name = "source"
		}
		line := fmt.Sprintf("[%d] %s", i+1, name)
		if s.Score != nil {
			line += fmt.Sprintf(" (%.0f%%)", *s.Score*100)
		}
		fmt.Fprintln(out, tui.SourceStyle.Render(line))
	}
}

func runChatHistory(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, _, err := chatPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		entries := page.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(out, tui.RenderInfo("No messages yet"))
			return nil
		}
		for _, e := range entries {
			who := tui.UserStyle.Render("You")
			if e.Message.Role == model.RoleAssistant {
				who = tui.AssistantStyle.Render("Assistant")
			}
			fmt.Fprintf(out, "%s %s\n%s\n\n", who, tui.MutedStyle.Render(e.Message.CreatedAt.Local().Format("2006-01-02 15:04")), e.Message.Content)
		}
		return nil
	})
}

func runChatClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, _, err := chatPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		cleared, err := page.Clear(ctx, a.confirmer(chatYes))
		if err != nil {
			return errors.New(page.ErrorMessage())
		}
		out := cmd.OutOrStdout()
		if !cleared {
			fmt.Fprintln(out, tui.RenderInfo("Cancelled"))
			return nil
		}
		fmt.Fprintln(out, tui.RenderSuccess("Chat history cleared"))
		return nil
	})
}

func runChatExport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, layout, err := chatPage(ctx, a, args[0])
		if err != nil {
			return err
		}
		md := page.ExportMarkdown(layout.Space.Name)
		if chatOutput == "" {
			_, err := io.WriteString(cmd.OutOrStdout(), md)
			return err
		}
		if err := os.WriteFile(chatOutput, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", chatOutput, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess("Exported to "+chatOutput))
		return nil
	})
}
