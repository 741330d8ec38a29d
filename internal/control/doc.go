// Package control locates and parses PostgreSQL extension control files.
//
// Every installable extension describes itself through a small descriptor at
// <share>/extension/<name>.control, a line-oriented key = value file in the
// server's configuration grammar. Whitelisting only consumes two of its keys,
// default_version and schema; everything else third-party descriptors carry
// is skipped without complaint. Only structural failure (missing file,
// unparseable line) is an error.
//
// Descriptors are tiny and may change on disk between statements (package
// upgrades), so resolution reads and parses the file fresh on every call.
package control
