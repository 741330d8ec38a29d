// Package db handles PostgreSQL connectivity: connection string parsing,
// parameter resolution from flags and environment variables, and pool
// construction for standard and cloud IAM authentication methods.
package db
