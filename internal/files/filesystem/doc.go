// Package filesystem provides a minimal read-only filesystem abstraction.
//
// Control-metadata resolution and share-directory listing go through the
// Provider interface, enabling production use with the OS filesystem and
// deterministic unit testing with an in-memory filesystem.
package filesystem
