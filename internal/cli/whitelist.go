package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgops-dev/pgextgate/internal/catalog"
	"github.com/pgops-dev/pgextgate/internal/config"
	"github.com/pgops-dev/pgextgate/internal/tui"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the extension whitelist in pgextgate.yaml",
}

var whitelistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the whitelisted extensions",
	Args:  cobra.NoArgs,
	RunE:  runWhitelistList,
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <extension>",
	Short: "Add an extension to the whitelist",
	Long: `Add puts an extension on the whitelist. Without --version any version is
allowed; each --version pins one allowed version.

Examples:
  pgextgate whitelist add hstore
  pgextgate whitelist add postgis --version 3.4.0 --version 3.4.1`,
	Args: cobra.ExactArgs(1),
	RunE: runWhitelistAdd,
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove <extension>",
	Short: "Remove an extension from the whitelist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhitelistRemove,
}

var whitelistEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the whitelist interactively",
	Long: `Edit opens an interactive picker over the extensions available in the
share directory. Requires a terminal; in CI use 'whitelist add/remove'.`,
	Args: cobra.NoArgs,
	RunE: runWhitelistEdit,
}

type whitelistFlagValues struct {
	projectDir string
	share      string
	versions   []string
}

var whitelistFlags whitelistFlagValues

func init() {
	rootCmd.AddCommand(whitelistCmd)
	whitelistCmd.AddCommand(whitelistListCmd, whitelistAddCmd, whitelistRemoveCmd, whitelistEditCmd)

	whitelistCmd.PersistentFlags().StringVar(&whitelistFlags.projectDir, "project", ".",
		"Directory containing pgextgate.yaml")

	whitelistAddCmd.Flags().StringSliceVar(&whitelistFlags.versions, "version", nil,
		"Pin an allowed version (can be specified multiple times; default: any version)")
	whitelistEditCmd.Flags().StringVar(&whitelistFlags.share, "share", "",
		"Server share directory (pg_config --sharedir)")
}

// loadOrInitConfig loads pgextgate.yaml, returning an empty config when the
// file does not exist yet so whitelist edits can bootstrap it.
func loadOrInitConfig(dir string) (*config.ProjectConfig, error) {
	cfg, err := loadProjectConfig(dir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.ProjectConfig{}
	}
	return cfg, nil
}

func runWhitelistList(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrInitConfig(whitelistFlags.projectDir)
	if err != nil {
		return err
	}

	if len(cfg.Whitelist) == 0 {
		fmt.Println("whitelist is empty: every extension statement will be denied")
		return nil
	}

	for _, entry := range cfg.Whitelist {
		if len(entry.Versions) == 0 {
			fmt.Println(entry.Name)
		} else {
			fmt.Printf("%s (%s)\n", entry.Name, strings.Join(entry.Versions, ", "))
		}
	}
	return nil
}

func runWhitelistAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("extension name cannot be empty: %w", pgextgate.ErrInvalidConfig)
	}

	cfg, err := loadOrInitConfig(whitelistFlags.projectDir)
	if err != nil {
		return err
	}

	cfg.Whitelist = addEntry(cfg.Whitelist, name, whitelistFlags.versions)

	if err := config.Save(whitelistFlags.projectDir, cfg); err != nil {
		return err
	}

	fmt.Printf("added %q to the whitelist\n", name)
	return nil
}

// addEntry merges an extension into the whitelist. Adding without pins makes
// the entry unpinned (any version), even if pins existed before; adding pins
// to an existing pinned entry accumulates them.
func addEntry(entries []pgextgate.WhitelistEntry, name string, versions []string) []pgextgate.WhitelistEntry {
	for i, entry := range entries {
		if entry.Name != name {
			continue
		}
		if len(versions) == 0 {
			entries[i].Versions = nil
			return entries
		}
		entries[i].Versions = mergeVersions(entry.Versions, versions)
		return entries
	}
	return append(entries, pgextgate.WhitelistEntry{Name: name, Versions: versions})
}

func mergeVersions(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(added))
	for _, v := range existing {
		if !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	for _, v := range added {
		if !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	return merged
}

func runWhitelistRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadOrInitConfig(whitelistFlags.projectDir)
	if err != nil {
		return err
	}

	kept := removeEntry(cfg.Whitelist, name)
	if len(kept) == len(cfg.Whitelist) {
		return fmt.Errorf("%q is not on the whitelist", name)
	}
	cfg.Whitelist = kept

	if err := config.Save(whitelistFlags.projectDir, cfg); err != nil {
		return err
	}

	fmt.Printf("removed %q from the whitelist\n", name)
	return nil
}

func removeEntry(entries []pgextgate.WhitelistEntry, name string) []pgextgate.WhitelistEntry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Name != name {
			kept = append(kept, entry)
		}
	}
	return kept
}

func runWhitelistEdit(cmd *cobra.Command, args []string) error {
	if !tui.IsInteractive() {
		return fmt.Errorf("whitelist edit requires a terminal; use 'pgextgate whitelist add/remove' in scripts")
	}

	cfg, err := loadOrInitConfig(whitelistFlags.projectDir)
	if err != nil {
		return err
	}

	sharePath, err := resolveSharePath(whitelistFlags.share, cfg)
	if err != nil {
		return err
	}

	available, err := catalog.NewAvailable(sharePath).List()
	if err != nil {
		return err
	}
	if len(available) == 0 {
		return fmt.Errorf("no extensions found in %s", sharePath)
	}

	current := make([]string, 0, len(cfg.Whitelist))
	for _, entry := range cfg.Whitelist {
		current = append(current, entry.Name)
	}

	names, ok, err := tui.RunPicker("Extension whitelist", available, current)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("cancelled, whitelist unchanged")
		return nil
	}

	cfg.Whitelist = rebuildWhitelist(cfg.Whitelist, names)

	if err := config.Save(whitelistFlags.projectDir, cfg); err != nil {
		return err
	}

	fmt.Printf("whitelist updated: %d extension(s)\n", len(cfg.Whitelist))
	return nil
}

// rebuildWhitelist applies a picker selection, preserving the version pins of
// entries that stay on the list.
func rebuildWhitelist(old []pgextgate.WhitelistEntry, names []string) []pgextgate.WhitelistEntry {
	pins := make(map[string][]string, len(old))
	for _, entry := range old {
		pins[entry.Name] = entry.Versions
	}

	entries := make([]pgextgate.WhitelistEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, pgextgate.WhitelistEntry{Name: name, Versions: pins[name]})
	}
	return entries
}
