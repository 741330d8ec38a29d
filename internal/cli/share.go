package cli

import (
	"fmt"
	"os"

	"github.com/pgops-dev/pgextgate/internal/config"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// resolveSharePath determines the server share directory to read control
// files from. Precedence: --share flag > $PGEXTGATE_SHARE > pgextgate.yaml.
//
// There is no default: guessing a share directory would make the gate judge
// metadata for the wrong server installation.
func resolveSharePath(shareFlag string, projectConfig *config.ProjectConfig) (string, error) {
	if shareFlag != "" {
		return shareFlag, nil
	}
	if env := os.Getenv("PGEXTGATE_SHARE"); env != "" {
		return env, nil
	}
	if projectConfig != nil && projectConfig.SharePath != "" {
		return projectConfig.SharePath, nil
	}

	return "", fmt.Errorf("share directory not configured: %w\n"+
		"Provide it via:\n"+
		"  1. --share flag: pgextgate check create hstore --share $(pg_config --sharedir)\n"+
		"  2. Environment variable: export PGEXTGATE_SHARE=$(pg_config --sharedir)\n"+
		"  3. share_path in %s", pgextgate.ErrInvalidConfig, config.ConfigFileName)
}
