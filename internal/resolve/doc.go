// Package resolve turns an extension statement's option list into the fully
// defaulted (schema, old_version, new_version) tuple the gate needs.
//
// The defaulting chain is strict and ordered: statement options beat control
// file defaults, which beat the first explicit entry of the session search
// path. A value the chain cannot determine is an error, never a guess — a
// swallowed ambiguity here could let an unintended extension or version slip
// past whitelist enforcement.
//
// Each call is an independent single-shot pipeline; nothing is cached or
// memoized between calls.
package resolve
