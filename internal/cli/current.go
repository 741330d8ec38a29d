package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgops-dev/pgextgate/internal/catalog"
	"github.com/pgops-dev/pgextgate/internal/db"
)

var currentCmd = &cobra.Command{
	Use:   "current <extension>",
	Short: "Show the installed version of an extension",
	Long: `Current queries pg_catalog.pg_extension for the installed version of the
named extension. Exit code 15 means the extension is not installed.

Examples:
  pgextgate current hstore
  pgextgate current postgis -d mydb`,
	Args: cobra.ExactArgs(1),
	RunE: runCurrent,
}

type currentFlagValues struct {
	conn       connFlagValues
	projectDir string
}

var currentFlags currentFlagValues

func init() {
	rootCmd.AddCommand(currentCmd)

	registerConnectionFlags(currentCmd, &currentFlags.conn)
	currentCmd.Flags().StringVar(&currentFlags.projectDir, "project", ".",
		"Directory containing pgextgate.yaml")
}

func runCurrent(cmd *cobra.Command, args []string) error {
	extension := args[0]

	projectCfg, err := loadProjectConfig(currentFlags.projectDir)
	if err != nil {
		return err
	}

	connConfig, err := resolveConnection(&currentFlags.conn, projectCfg)
	if err != nil {
		return err
	}
	connector, err := newConnector(connConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := db.NewSession(connector)
	defer session.Close()

	version, err := catalog.NewLookup(session).CurrentVersion(ctx, extension)
	if err != nil {
		return err
	}

	fmt.Println(version)
	return nil
}
