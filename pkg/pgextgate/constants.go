package pgextgate

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess              = 0  // Operation permitted / resolution succeeded
	ExitGeneralError         = 1  // Unknown or unclassified error
	ExitUsageError           = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic                = 3  // Internal panic (unexpected crash)
	ExitDenied               = 4  // Gate decision: extension/version not whitelisted
	ExitConfigError          = 10 // Invalid configuration or parameters
	ExitConnectionError      = 11 // Failed to connect to database
	ExitResolutionFailed     = 12 // Properties could not be defaulted (no schema, ...)
	ExitControlFileMissing   = 13 // Extension control file not found
	ExitControlFileMalformed = 14 // Extension control file could not be parsed
	ExitNotInstalled         = 15 // Extension has no pg_extension row
)

// Statement option keys recognized by the property resolver.
// All other option keys are ignored and left for the server to validate.
const (
	OptionSchema     = "schema"
	OptionOldVersion = "old_version"
	OptionNewVersion = "new_version"
)

// Control file keys consumed by the control-metadata resolver. Control files
// carry more keys (module_pathname, relocatable, comment, ...) which are
// irrelevant to whitelisting and skipped.
const (
	ControlKeyDefaultVersion = "default_version"
	ControlKeySchema         = "schema"
)

const (
	// ControlDir is the subdirectory of the share path holding control files.
	ControlDir = "extension"

	// ControlSuffix is the filename suffix of extension control files.
	ControlSuffix = ".control"

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3
)
