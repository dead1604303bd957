package commands

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/justsurfingit/brightpath/internal/auth"
	"github.com/justsurfingit/brightpath/internal/services"
)

// InboxCmd follows recruiting emails in Gmail
var InboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Update application statuses from your Gmail inbox",
	Long: `Read recruiting emails from Gmail, match them to your applications and
move each matched application to the status the email implies.

Requires a Google OAuth client file (gmail.credentials) and a Gemini API key
(GEMINI_API_KEY). Run 'brightpath inbox login' once to authorize access.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var inboxLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize read-only access to Gmail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := Setup(cmd.Context())
		if err != nil {
			return err
		}
		cfg := app.Config.Gmail
		if _, err := auth.GmailHTTPClient(cmd.Context(), cfg.Credentials, cfg.Token, os.Stdin, os.Stdout); err != nil {
			return err
		}
		pterm.Success.Printfln("Gmail authorized, token saved to %s", cfg.Token)
		return nil
	},
}

var inboxSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Process new recruiting emails",
	Long: `Process the emails received since the last sync (the last 7 days on the
first run). With --watch, keep syncing every inbox.interval until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		return runInboxSync(cmd.Context(), watch)
	},
}

func init() {
	inboxSyncCmd.Flags().Bool("watch", false, "Keep syncing until interrupted")

	InboxCmd.AddCommand(inboxLoginCmd)
	InboxCmd.AddCommand(inboxSyncCmd)
}

func runInboxSync(ctx context.Context, watch bool) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	cfg := app.Config

	llm, err := services.NewLLMService(ctx, cfg.LLM.APIKey, cfg.LLM.Model, app.Logger)
	if err != nil {
		return err
	}
	httpClient, err := auth.GmailHTTPClient(ctx, cfg.Gmail.Credentials, cfg.Gmail.Token, nil, nil)
	if err != nil {
		return err
	}
	gmailService, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return err
	}
	inbox := services.NewInboxService(app.Store, services.NewGmailSource(gmailService, app.Logger), llm, app.Storage, app.Logger)

	if watch {
		pterm.Info.Printfln("Watching the inbox every %s, press Ctrl+C to stop", cfg.Inbox.Interval)
		return inbox.StartWatcher(ctx, cfg.Inbox.Interval)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Syncing inbox...")
	report, err := inbox.Sync(ctx)
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return err
	}
	if spinner != nil {
		spinner.Success("Inbox synced")
	}
	app.MockBanner()
	pterm.Info.Printfln("%d emails read, %d already seen, %d matched, %d applications updated",
		report.Fetched, report.Skipped, report.Matched, report.Updated)
	return nil
}
