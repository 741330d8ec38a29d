package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pgops-dev/pgextgate/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Create a pgextgate.yaml configuration",
	Long: `Init writes a starter pgextgate.yaml into the target directory (default:
the current directory).

The generated file records the server share directory and an initial
whitelist. Pass --allow once per extension to seed the whitelist; an empty
whitelist denies every extension statement until entries are added.

Examples:
  pgextgate init --share $(pg_config --sharedir)
  pgextgate init ./gate-config --share /usr/share/postgresql --allow hstore --allow pg_trgm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

type initFlagValues struct {
	share string
	allow []string
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFlags.share, "share", "",
		"Server share directory to record (pg_config --sharedir)")
	initCmd.Flags().StringSliceVar(&initFlags.allow, "allow", nil,
		"Seed the whitelist with an extension (can be specified multiple times)")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetPath := "."
	if len(args) == 1 {
		targetPath = args[0]
	}

	configPath := filepath.Join(targetPath, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", targetPath, err)
	}

	cfg := &config.ProjectConfig{
		SharePath: initFlags.share,
	}
	for _, name := range initFlags.allow {
		cfg.Whitelist = addEntry(cfg.Whitelist, name, nil)
	}

	if err := config.Save(targetPath, cfg); err != nil {
		return err
	}

	fmt.Printf("created %s\n", configPath)
	if cfg.SharePath == "" {
		fmt.Println("note: share_path is empty; set it to the output of pg_config --sharedir")
	}
	if len(cfg.Whitelist) == 0 {
		fmt.Println("note: the whitelist is empty; every extension statement will be denied")
	}
	return nil
}
