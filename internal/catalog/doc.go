// Package catalog implements the database-backed collaborators of the
// property resolver: installed-version lookup (pg_extension), search path
// inspection (current_schemas), and namespace name resolution (pg_namespace),
// plus discovery of installable extensions in the server's share directory.
package catalog
