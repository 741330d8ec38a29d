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
	"github.com/pgops-dev/pgextgate/internal/gate"
	"github.com/pgops-dev/pgextgate/internal/logging"
	"github.com/pgops-dev/pgextgate/internal/policy"
	"github.com/pgops-dev/pgextgate/internal/resolve"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

var checkCmd = &cobra.Command{
	Use:   "check <create|update|drop> <extension>",
	Short: "Gate an extension statement against the whitelist",
	Long: `Check resolves an extension statement exactly like the server would and
evaluates the result against the whitelist in pgextgate.yaml.

The statement's missing properties are defaulted in server order:
statement options first, then the extension's control file, then the first
schema on the session search path. A statement that cannot be defaulted is
rejected before the whitelist is even consulted.

Exit code 0 means allowed; 4 means denied.

Examples:
  # Would CREATE EXTENSION hstore be allowed?
  pgextgate check create hstore

  # A pinned version and an explicit target schema
  pgextgate check create postgis --version 3.4.0 --schema gis

  # Upgrades resolve the installed version from the catalog
  pgextgate check update hstore --version 1.9

  # Drops consult only the whitelist, no server needed
  pgextgate check drop hstore`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

type checkFlagValues struct {
	conn       connFlagValues
	share      string
	projectDir string
	version    string
	schema     string
	oldVersion string
}

var checkFlags checkFlagValues

func init() {
	rootCmd.AddCommand(checkCmd)

	registerConnectionFlags(checkCmd, &checkFlags.conn)

	checkCmd.Flags().StringVar(&checkFlags.share, "share", "",
		"Server share directory (pg_config --sharedir)\n"+
			"Precedence: --share > $PGEXTGATE_SHARE > share_path in pgextgate.yaml")
	checkCmd.Flags().StringVar(&checkFlags.projectDir, "project", ".",
		"Directory containing pgextgate.yaml")
	checkCmd.Flags().StringVar(&checkFlags.version, "version", "",
		"Requested version (the statement's VERSION option)")
	checkCmd.Flags().StringVar(&checkFlags.schema, "schema", "",
		"Target schema (the statement's SCHEMA option)")
	checkCmd.Flags().StringVar(&checkFlags.oldVersion, "old-version", "",
		"Installed version for updates (skips the catalog lookup)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	action, err := pgextgate.ParseAction(args[0])
	if err != nil {
		return err
	}
	extension := args[1]

	projectCfg, err := loadProjectConfig(checkFlags.projectDir)
	if err != nil {
		return err
	}

	sharePath, err := resolveSharePath(checkFlags.share, projectCfg)
	if err != nil {
		return err
	}

	connConfig, err := resolveConnection(&checkFlags.conn, projectCfg)
	if err != nil {
		return err
	}
	connector, err := newConnector(connConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The session connects on first catalog query, so drop checks and fully
	// specified creates never require a reachable server.
	session := db.NewSession(connector)
	defer session.Close()

	resolver := resolve.NewResolver(
		control.NewResolver(sharePath),
		catalog.NewLookup(session),
		catalog.NewSearchPath(session),
		catalog.NewNamespaces(session),
	)

	var entries []pgextgate.WhitelistEntry
	if projectCfg != nil {
		entries = projectCfg.Whitelist
	}
	g := gate.New(resolver, policy.NewWhitelist(entries), logger)

	options := pgextgate.Options{}
	if checkFlags.version != "" {
		options[pgextgate.OptionNewVersion] = checkFlags.version
	}
	if checkFlags.schema != "" {
		options[pgextgate.OptionSchema] = checkFlags.schema
	}
	if checkFlags.oldVersion != "" {
		options[pgextgate.OptionOldVersion] = checkFlags.oldVersion
	}

	decision, err := g.Check(ctx, pgextgate.CheckRequest{
		Action:    action,
		Extension: extension,
		Options:   options,
	})
	if err != nil {
		return err
	}

	printDecision(decision)
	if !decision.Allowed {
		return fmt.Errorf("%s %q: %w", decision.Action, decision.Extension, pgextgate.ErrDenied)
	}
	return nil
}

// printDecision writes the verdict to stdout for pipeline consumption.
func printDecision(d pgextgate.Decision) {
	verdict := "DENY"
	if d.Allowed {
		verdict = "ALLOW"
	}

	line := fmt.Sprintf("%s %s %s", verdict, d.Action, d.Extension)
	if d.Resolved.NewVersion != "" {
		line += " version=" + d.Resolved.NewVersion
	}
	if d.Resolved.OldVersion != "" {
		line += " from=" + d.Resolved.OldVersion
	}
	if d.Resolved.Schema != "" {
		line += " schema=" + d.Resolved.Schema
	}
	fmt.Println(line)

	if !d.Allowed && d.Reason != "" {
		fmt.Println("reason: " + d.Reason)
	}
}
