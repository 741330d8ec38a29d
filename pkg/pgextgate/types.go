package pgextgate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Options holds the option list of an extension-management statement
// (CREATE EXTENSION ... WITH SCHEMA ..., ALTER EXTENSION ... UPDATE TO ...).
// Only OptionSchema, OptionOldVersion and OptionNewVersion are consulted;
// any other key (cascade, ...) is deliberately left for the server's own
// validation and never causes an error here.
type Options map[string]string

// Schema returns the schema option and whether it was supplied.
func (o Options) Schema() (string, bool) {
	v, ok := o[OptionSchema]
	return v, ok
}

// OldVersion returns the old_version option and whether it was supplied.
func (o Options) OldVersion() (string, bool) {
	v, ok := o[OptionOldVersion]
	return v, ok
}

// NewVersion returns the new_version option and whether it was supplied.
func (o Options) NewVersion() (string, bool) {
	v, ok := o[OptionNewVersion]
	return v, ok
}

// ControlMetadata is the parsed representation of an extension control file,
// reduced to the two keys whitelisting cares about. Fields are populated on a
// first-occurrence-wins basis when the file carries duplicate keys. A fresh
// value is built on every resolution; control files may change between calls
// (e.g. after a package upgrade) and are never cached.
type ControlMetadata struct {
	// DefaultVersion is the value of the default_version key, "" if absent.
	DefaultVersion string

	// DefaultSchema is the value of the schema key, "" if absent.
	DefaultSchema string

	// Path is the control file location, for error messages and audit.
	Path string

	// Checksum is the SHA-256 hex digest of the raw control file content,
	// recording exactly which descriptor bytes were consulted.
	Checksum string
}

// ResolvedProperties is the fully-defaulted property tuple for an extension
// statement. On success Schema and NewVersion are never empty; OldVersion is
// empty unless the statement supplied it (fetching the installed version is a
// separate, caller-driven catalog lookup).
type ResolvedProperties struct {
	Schema     string
	OldVersion string
	NewVersion string
}

// SchemaID identifies a schema in the catalog (a pg_namespace OID).
type SchemaID uint32

// Action is the kind of extension-management statement being gated.
type Action int

const (
	ActionCreate Action = iota // CREATE EXTENSION
	ActionUpdate               // ALTER EXTENSION ... UPDATE
	ActionDrop                 // DROP EXTENSION
)

// String returns the statement keyword for the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDrop:
		return "drop"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// IsValid returns true if the Action is a defined value.
func (a Action) IsValid() bool {
	return a >= ActionCreate && a <= ActionDrop
}

// ParseAction converts a statement keyword into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "create":
		return ActionCreate, nil
	case "update":
		return ActionUpdate, nil
	case "drop":
		return ActionDrop, nil
	default:
		return 0, fmt.Errorf("unknown action %q (expected create, update or drop): %w", s, ErrInvalidConfig)
	}
}

// CheckRequest describes one extension statement submitted to the gate.
type CheckRequest struct {
	// Action is the statement kind being gated.
	Action Action

	// Extension is the extension name from the statement. Never empty.
	Extension string

	// Options is the statement's option list.
	Options Options
}

// Decision is the gate's verdict for one CheckRequest. A denial is a normal
// value, not an error: errors mean the statement could not even be defaulted
// and must be rejected outright.
type Decision struct {
	// ID uniquely identifies this decision in audit output.
	ID uuid.UUID

	// Action and Extension echo the request.
	Action    Action
	Extension string

	// Allowed reports whether the whitelist permits the operation.
	Allowed bool

	// Reason is a human-readable explanation, always set for denials.
	Reason string

	// Resolved is the fully-defaulted property tuple. Populated for create
	// and update decisions, zero for drop (nothing to resolve).
	Resolved ResolvedProperties

	// ControlChecksum is the SHA-256 of the control file consulted during
	// resolution, "" when no control file was read.
	ControlChecksum string
}

// AvailableExtension is one installable extension discovered in the server's
// share directory, as listed by `pgextgate avail` and the whitelist editor.
type AvailableExtension struct {
	// Name is the extension name (the control file basename).
	Name string

	// DefaultVersion is the default_version from the control file, "" if
	// the control file does not declare one.
	DefaultVersion string

	// DefaultSchema is the schema key from the control file, "" if absent.
	DefaultSchema string
}

// WhitelistEntry is one administrator-approved extension, optionally pinned
// to an explicit set of versions. An empty Versions slice permits any version.
type WhitelistEntry struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions,omitempty"`
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the RDS region (used when AuthMethod is AuthMethodAWSIAM).
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name,
	// "project:region:instance" (used when AuthMethod is AuthMethodGoogleIAM).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
