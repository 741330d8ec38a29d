package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgops-dev/pgextgate/internal/catalog"
	"github.com/pgops-dev/pgextgate/internal/control"
	"github.com/pgops-dev/pgextgate/internal/db"
	"github.com/pgops-dev/pgextgate/internal/resolve"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <extension>",
	Short: "Show the fully defaulted properties of an extension statement",
	Long: `Resolve shows what a CREATE EXTENSION statement would actually install:
the version and schema after applying the server's defaulting chain
(statement options, then the control file, then the search path).

No whitelist is consulted; this is the resolution step of 'check' on its own.

Examples:
  pgextgate resolve hstore
  pgextgate resolve postgis --version 3.4.0 --schema gis`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

type resolveFlagValues struct {
	conn       connFlagValues
	share      string
	projectDir string
	version    string
	schema     string
}

var resolveFlags resolveFlagValues

func init() {
	rootCmd.AddCommand(resolveCmd)

	registerConnectionFlags(resolveCmd, &resolveFlags.conn)

	resolveCmd.Flags().StringVar(&resolveFlags.share, "share", "",
		"Server share directory (pg_config --sharedir)")
	resolveCmd.Flags().StringVar(&resolveFlags.projectDir, "project", ".",
		"Directory containing pgextgate.yaml")
	resolveCmd.Flags().StringVar(&resolveFlags.version, "version", "",
		"Requested version (the statement's VERSION option)")
	resolveCmd.Flags().StringVar(&resolveFlags.schema, "schema", "",
		"Target schema (the statement's SCHEMA option)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	extension := args[0]

	projectCfg, err := loadProjectConfig(resolveFlags.projectDir)
	if err != nil {
		return err
	}

	sharePath, err := resolveSharePath(resolveFlags.share, projectCfg)
	if err != nil {
		return err
	}

	connConfig, err := resolveConnection(&resolveFlags.conn, projectCfg)
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

	resolver := resolve.NewResolver(
		control.NewResolver(sharePath),
		catalog.NewLookup(session),
		catalog.NewSearchPath(session),
		catalog.NewNamespaces(session),
	)

	options := pgextgate.Options{}
	if resolveFlags.version != "" {
		options[pgextgate.OptionNewVersion] = resolveFlags.version
	}
	if resolveFlags.schema != "" {
		options[pgextgate.OptionSchema] = resolveFlags.schema
	}

	resolution, err := resolver.Resolve(ctx, extension, options)
	if err != nil {
		return err
	}

	fmt.Printf("extension: %s\n", extension)
	fmt.Printf("version:   %s\n", resolution.Properties.NewVersion)
	fmt.Printf("schema:    %s\n", resolution.Properties.Schema)
	if resolution.ControlConsulted {
		fmt.Printf("control:   %s\n", resolution.Control.Path)
		fmt.Printf("checksum:  %s\n", resolution.Control.Checksum)
	}

	return nil
}
