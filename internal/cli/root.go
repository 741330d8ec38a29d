package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgextgate",
	Short: "PostgreSQL extension whitelist gatekeeper",
	Long: `pgextgate resolves and gates PostgreSQL extension statements the way the
server would: it reads control files from the share directory, defaults the
missing properties (version, schema) exactly like CREATE/ALTER EXTENSION, and
checks the result against an administrator-maintained whitelist.

Exit Codes:
  0  - Success (statement allowed)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  4  - Denied: extension or version not on the whitelist
  10 - Invalid configuration
  11 - Database connection failed
  12 - Property resolution failed (no schema, no version)
  13 - Extension control file not found
  14 - Extension control file malformed
  15 - Extension not installed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgextgate")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
