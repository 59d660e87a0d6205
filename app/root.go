// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gorealm-admin",
	Short: "GoRealm-Admin is a user and role management service",
	Long: `GoRealm-Admin is a backend-for-frontend for user and role management
that delegates identity storage and authentication to a Keycloak compatible
identity provider while keeping role-to-menu permissions in a local database.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
