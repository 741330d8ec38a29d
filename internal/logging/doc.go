// Package logging provides concrete implementations of the pgextgate.Logger interface.
package logging
