package commands

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/justsurfingit/brightpath/internal/aiclient"
	"github.com/justsurfingit/brightpath/internal/errors"
)

// AICmd groups the writing assistants
var AICmd = &cobra.Command{
	Use:   "ai",
	Short: "Writing assistants backed by the server's language model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// CoverLetterCmd drafts a cover letter
var CoverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Draft a cover letter",
	Long: `Draft a cover letter for a position. Sender details are optional.

Example:
  brightpath ai cover-letter --position "Frontend Developer" --company TechCorp \
    --first-name Jean --last-name Dupont --email jean@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		get := func(name string) string { v, _ := f.GetString(name); return v }
		return runCoverLetter(cmd.Context(), aiclient.CoverLetterRequest{
			Position:  get("position"),
			Company:   get("company"),
			FirstName: get("first-name"),
			LastName:  get("last-name"),
			Email:     get("email"),
			Phone:     get("phone"),
			Address:   get("address"),
			Recipient: get("recipient"),
		})
	},
}

// ProfessionalizeCmd rewrites text in a formal register
var ProfessionalizeCmd = &cobra.Command{
	Use:   "professionalize <text...>",
	Short: "Rewrite text in a professional tone",
	Long: `Rewrite a sentence or paragraph in a professional tone.

Example:
  brightpath ai professionalize "I had the chance to hack on a bunch of stuff"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("context")
		return runProfessionalize(cmd.Context(), aiclient.ProfessionalizeRequest{
			OriginalText: strings.Join(args, " "),
			Context:      purpose,
		})
	},
}

func init() {
	f := CoverLetterCmd.Flags()
	f.String("position", "", "Position applied for (required)")
	f.String("company", "", "Company (required)")
	f.String("first-name", "", "Your first name")
	f.String("last-name", "", "Your last name")
	f.String("email", "", "Your email")
	f.String("phone", "", "Your phone number")
	f.String("address", "", "Your postal address")
	f.String("recipient", "", "Who the letter is addressed to")

	ProfessionalizeCmd.Flags().String("context", "", "What the text is for, e.g. \"cover letter\"")

	AICmd.AddCommand(CoverLetterCmd)
	AICmd.AddCommand(ProfessionalizeCmd)
}

func runCoverLetter(ctx context.Context, req aiclient.CoverLetterRequest) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	spinner, _ := pterm.DefaultSpinner.Start("Writing cover letter...")
	resp, err := app.AI.GenerateCoverLetter(ctx, req)
	return printGeneration(app, spinner, resp, err)
}

func runProfessionalize(ctx context.Context, req aiclient.ProfessionalizeRequest) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	spinner, _ := pterm.DefaultSpinner.Start("Rewriting...")
	resp, err := app.AI.ProfessionalizeText(ctx, req)
	return printGeneration(app, spinner, resp, err)
}

func printGeneration(app *App, spinner *pterm.SpinnerPrinter, resp *aiclient.Response, err error) error {
	if err != nil {
		if spinner != nil {
			spinner.Fail(errors.UserMessage(err))
		}
		return err
	}
	if spinner != nil {
		spinner.Success(resp.Message)
	}
	app.MockBanner()
	pterm.Println()
	pterm.Println(resp.Content)
	pterm.Println()
	if resp.Usage != nil {
		pterm.Debug.Printfln("%s, %d tokens", resp.Model, resp.Usage.TotalTokens)
	}
	return nil
}
