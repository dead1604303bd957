package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// AuthCmd manages the backend bearer token
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token sent to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authSetCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the bearer token used for backend requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := Setup(cmd.Context())
		if err != nil {
			return err
		}
		if err := app.Tokens.SetToken(cmd.Context(), args[0]); err != nil {
			return err
		}
		pterm.Success.Println("Token stored")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := Setup(cmd.Context())
		if err != nil {
			return err
		}
		if err := app.Tokens.RemoveToken(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Token removed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Tell whether a token is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := Setup(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := app.Tokens.Token(); err != nil {
			pterm.Info.Println("No token stored; requests are sent without Authorization")
			return nil
		}
		pterm.Success.Printfln("Token stored, requests to %s are authorized", app.Config.API.URL)
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(authSetCmd)
	AuthCmd.AddCommand(authClearCmd)
	AuthCmd.AddCommand(authStatusCmd)
}
