// Package checksum computes digests of extension control files.
//
// The gate records a digest of every descriptor it consulted so audit output
// can prove exactly which control file content a decision was based on, and
// so operators can detect descriptor changes after package upgrades.
package checksum
