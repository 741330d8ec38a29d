// Package gate makes the allow/deny decision for extension statements.
//
// The gate separates two failure shapes on purpose: a Decision with
// Allowed=false means the statement resolved cleanly but the whitelist
// forbids it, while an error means the statement could not even be defaulted
// and must be rejected regardless of policy.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pgops-dev/pgextgate/internal/resolve"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// PropertyResolver is the resolution pipeline the gate consults.
// Implemented by internal/resolve.Resolver.
type PropertyResolver interface {
	Resolve(ctx context.Context, extension string, opts pgextgate.Options) (resolve.Resolution, error)
	CurrentVersion(ctx context.Context, extension string) (string, error)
}

// Gate evaluates extension statements against the whitelist policy.
// Stateless between calls; safe for concurrent use when its collaborators are.
type Gate struct {
	resolver PropertyResolver
	policy   pgextgate.Policy
	logger   pgextgate.Logger
}

// New creates a gate. Panics if any collaborator is nil.
func New(resolver PropertyResolver, policy pgextgate.Policy, logger pgextgate.Logger) *Gate {
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Gate{resolver: resolver, policy: policy, logger: logger}
}

// Check evaluates one extension statement and returns the gate's decision.
//
// Create and update statements are fully resolved first, so denials name the
// exact version and schema that were refused. Update decisions additionally
// record the installed version being upgraded from: either the statement's
// old_version option or a catalog lookup, which fails with ErrNotInstalled
// when the extension has no catalog row.
func (g *Gate) Check(ctx context.Context, req pgextgate.CheckRequest) (pgextgate.Decision, error) {
	if !req.Action.IsValid() {
		return pgextgate.Decision{}, fmt.Errorf("invalid action %d: %w", int(req.Action), pgextgate.ErrInvalidConfig)
	}
	if req.Extension == "" {
		return pgextgate.Decision{}, fmt.Errorf("extension name cannot be empty: %w", pgextgate.ErrInvalidConfig)
	}

	decision := pgextgate.Decision{
		ID:        uuid.New(),
		Action:    req.Action,
		Extension: req.Extension,
	}

	if req.Action == pgextgate.ActionDrop {
		// Nothing to resolve: dropping is permitted for any whitelisted
		// extension regardless of version.
		decision.Allowed = g.policy.Allows(req.Extension)
		if decision.Allowed {
			decision.Reason = "extension is whitelisted"
		} else {
			decision.Reason = fmt.Sprintf("extension %q is not whitelisted", req.Extension)
		}
		g.audit(decision)
		return decision, nil
	}

	res, err := g.resolver.Resolve(ctx, req.Extension, req.Options)
	if err != nil {
		return pgextgate.Decision{}, err
	}
	decision.Resolved = res.Properties
	decision.ControlChecksum = res.Control.Checksum

	if req.Action == pgextgate.ActionUpdate && decision.Resolved.OldVersion == "" {
		current, err := g.resolver.CurrentVersion(ctx, req.Extension)
		if err != nil {
			if errors.Is(err, pgextgate.ErrNotInstalled) {
				return pgextgate.Decision{}, fmt.Errorf("cannot update %q: %w", req.Extension, err)
			}
			return pgextgate.Decision{}, err
		}
		decision.Resolved.OldVersion = current
	}

	switch {
	case !g.policy.Allows(req.Extension):
		decision.Reason = fmt.Sprintf("extension %q is not whitelisted", req.Extension)
	case !g.policy.AllowsVersion(req.Extension, decision.Resolved.NewVersion):
		decision.Reason = fmt.Sprintf("extension %q version %q is not whitelisted",
			req.Extension, decision.Resolved.NewVersion)
	default:
		decision.Allowed = true
		decision.Reason = fmt.Sprintf("extension %q version %q is whitelisted",
			req.Extension, decision.Resolved.NewVersion)
	}

	g.audit(decision)
	return decision, nil
}

// audit writes one line per decision so operators can reconstruct exactly
// what was permitted, when, and on which descriptor content.
func (g *Gate) audit(d pgextgate.Decision) {
	verdict := "DENY"
	if d.Allowed {
		verdict = "ALLOW"
	}
	if d.ControlChecksum != "" {
		g.logger.Info("decision %s: %s %s %s (schema=%s old=%s new=%s control=%s)",
			d.ID, verdict, d.Action, d.Extension,
			d.Resolved.Schema, d.Resolved.OldVersion, d.Resolved.NewVersion, d.ControlChecksum)
		return
	}
	g.logger.Info("decision %s: %s %s %s (schema=%s old=%s new=%s)",
		d.ID, verdict, d.Action, d.Extension,
		d.Resolved.Schema, d.Resolved.OldVersion, d.Resolved.NewVersion)
}
