package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlazzje/dlgmail/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account  string
		authCode string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Gmail access and save the OAuth token",
		Long: `Run the OAuth authorization flow for a Google account.

The command prints an authorization URL. Visit it in a browser, sign in,
grant read access to Gmail and paste the authorization code back. The
token is cached per account, so this only needs to be done once; it is
refreshed automatically afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %q is already authorized. Delete its token file to re-authorize.\n", account)
				return nil
			}

			if authCode == "" {
				fmt.Printf("Visit this URL to authorize Gmail access for account %q:\n\n  %s\n\n", account, google.GetAuthURLForAccount(account))
				fmt.Print("Enter the authorization code: ")

				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				authCode = strings.TrimSpace(line)
			}
			if authCode == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveTokenForAccount(ctx, account, authCode); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}

			fmt.Printf("Authorization successful. Token saved for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code (skips the interactive prompt)")

	return cmd
}
