package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pgops-dev/pgextgate/internal/catalog"
	"github.com/pgops-dev/pgextgate/internal/policy"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

var availCmd = &cobra.Command{
	Use:   "avail",
	Short: "List the extensions available in the share directory",
	Long: `Avail scans the share directory's extension/ subdirectory for control
files and lists every installable extension with its default version and,
when a whitelist is configured, whether it is currently allowed.

No server connection is needed; this reads the filesystem only.

Examples:
  pgextgate avail --share $(pg_config --sharedir)
  pgextgate avail   # share directory from pgextgate.yaml or $PGEXTGATE_SHARE`,
	Args: cobra.NoArgs,
	RunE: runAvail,
}

type availFlagValues struct {
	share      string
	projectDir string
}

var availFlags availFlagValues

func init() {
	rootCmd.AddCommand(availCmd)

	availCmd.Flags().StringVar(&availFlags.share, "share", "",
		"Server share directory (pg_config --sharedir)")
	availCmd.Flags().StringVar(&availFlags.projectDir, "project", ".",
		"Directory containing pgextgate.yaml")
}

func runAvail(cmd *cobra.Command, args []string) error {
	projectCfg, err := loadProjectConfig(availFlags.projectDir)
	if err != nil {
		return err
	}

	sharePath, err := resolveSharePath(availFlags.share, projectCfg)
	if err != nil {
		return err
	}

	extensions, err := catalog.NewAvailable(sharePath).List()
	if err != nil {
		return err
	}

	var whitelist *policy.Whitelist
	if projectCfg != nil {
		whitelist = policy.NewWhitelist(projectCfg.Whitelist)
	}

	printAvailable(os.Stdout, extensions, whitelist)
	return nil
}

func printAvailable(out io.Writer, extensions []pgextgate.AvailableExtension, whitelist *policy.Whitelist) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if whitelist != nil {
		fmt.Fprintln(w, "NAME\tDEFAULT VERSION\tSCHEMA\tWHITELISTED")
	} else {
		fmt.Fprintln(w, "NAME\tDEFAULT VERSION\tSCHEMA")
	}

	for _, ext := range extensions {
		version := ext.DefaultVersion
		if version == "" {
			version = "-"
		}
		schema := ext.DefaultSchema
		if schema == "" {
			schema = "-"
		}

		if whitelist != nil {
			allowed := "no"
			if whitelist.Allows(ext.Name) {
				allowed = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ext.Name, version, schema, allowed)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ext.Name, version, schema)
		}
	}
}
