package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pgops-dev/pgextgate/internal/config"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it can override the database from a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags represents cloud IAM authentication CLI flags.
// These override the corresponding environment variables.
// Note: the Azure client secret is NOT a CLI flag for security reasons;
// use the AZURE_CLIENT_SECRET environment variable instead.
type CloudFlags struct {
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
	AWSRegion      string // Overrides AWS_REGION; implies AWS IAM auth
	GoogleInstance string // project:region:instance; implies Google IAM auth
}

// IsEmpty returns true if no cloud flags were provided.
func (c *CloudFlags) IsEmpty() bool {
	return c == nil || (c.AzureTenantID == "" && c.AzureClientID == "" &&
		c.AWSRegion == "" && c.GoogleInstance == "")
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud SDK variables the connectors understand.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string

	// AWS_REGION is the standard AWS SDK region variable.
	AWS_REGION string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard
// precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (-h, -p, -U, -d) - if any provided, build config from flags
//  3. Environment variables (PGHOST, PGPORT, etc.)
//  4. DATABASE_URL environment variable - fallback if no granular params
//  5. pgextgate.yaml connection section
//  6. Defaults (localhost:5432, prefer SSL)
//
// Cloud IAM authentication: cloud flags or the corresponding environment
// variables switch the AuthMethod and attach credentials. CLI flags take
// precedence over environment variables, which take precedence over
// pgextgate.yaml.
//
// Returns an error if BOTH --connection and granular flags are provided.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgextgate.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/postgres\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *pgextgate.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	// The -d flag overrides the database regardless of source.
	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, projectConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyCloudAuth sets cloud IAM authentication on the config when credentials
// are available. Flags beat environment variables beat pgextgate.yaml.
func applyCloudAuth(cfg *pgextgate.ConnectionConfig, flags *CloudFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	tenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	awsRegion := firstNonEmpty(flags.AWSRegion, pc.AWSRegion, env.AWS_REGION)
	googleInstance := firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)

	// An explicit auth_method in pgextgate.yaml wins; otherwise the presence
	// of provider-specific parameters selects the method.
	method := cfg.AuthMethod
	if pc.AuthMethod != "" {
		m, err := parseAuthMethod(pc.AuthMethod)
		if err != nil {
			return err
		}
		method = m
	} else {
		switch {
		case flags.GoogleInstance != "" || pc.GoogleInstance != "":
			method = pgextgate.AuthMethodGoogleIAM
		case flags.AWSRegion != "" || pc.AWSRegion != "":
			method = pgextgate.AuthMethodAWSIAM
		case tenantID != "" || clientID != "":
			method = pgextgate.AuthMethodAzureEntraID
		}
	}

	cfg.AuthMethod = method

	switch method {
	case pgextgate.AuthMethodAzureEntraID:
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case pgextgate.AuthMethodAWSIAM:
		cfg.AWSRegion = awsRegion
	case pgextgate.AuthMethodGoogleIAM:
		cfg.GoogleInstance = googleInstance
	}

	return nil
}

// parseAuthMethod maps the auth_method strings accepted in pgextgate.yaml.
func parseAuthMethod(s string) (pgextgate.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return pgextgate.AuthMethodStandard, nil
	case "aws-iam", "aws_iam", "awsiam":
		return pgextgate.AuthMethodAWSIAM, nil
	case "google-iam", "google_iam", "cloudsql":
		return pgextgate.AuthMethodGoogleIAM, nil
	case "azure-entra-id", "azure_entra_id", "azure":
		return pgextgate.AuthMethodAzureEntraID, nil
	default:
		return pgextgate.AuthMethodStandard,
			fmt.Errorf("auth_method %q: %w", s, pgextgate.ErrUnsupportedAuthMethod)
	}
}

// resolveFromConnectionString parses a connection string, applying environment
// variables as fallbacks for parameters it does not specify (libpq behavior).
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*pgextgate.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if cfg.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}
	if cfg.Password == "" && envVars != nil {
		cfg.Password = envVars.PGPASSWORD
	}

	return cfg, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags,
// environment variables, and pgextgate.yaml, in that order of precedence.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgextgate.ConnectionConfig, error) {
	cfg := &pgextgate.ConnectionConfig{
		AuthMethod:       pgextgate.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	cfg.Port = flags.Port
	if cfg.Port == 0 && envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid PGPORT %q: %w", envVars.PGPORT, err)
		}
		cfg.Port = port
	}
	if cfg.Port == 0 {
		cfg.Port = pc.Port
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username)
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, "postgres")
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
