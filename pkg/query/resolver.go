// Package query resolves provisions as they read on a given date.
package query

import (
	"context"
	"fmt"

	"github.com/coolbeans/lagref/pkg/types"
)

// Outcome classifies a resolution.
type Outcome string

const (
	// OutcomeFound means a version or current provision was selected.
	OutcomeFound Outcome = "found"
	// OutcomeNotInForce means the provision has history but nothing covers
	// the requested date.
	OutcomeNotInForce Outcome = "not_in_force"
	// OutcomeNeverExisted means the store knows nothing about the provision.
	OutcomeNeverExisted Outcome = "never_existed"
)

// VersionSource is the store surface the resolver reads.
type VersionSource interface {
	CurrentProvision(ctx context.Context, documentID, provisionRef string) (types.Option[types.Provision], error)
	ProvisionVersions(ctx context.Context, documentID, provisionRef string) ([]types.ProvisionVersion, error)
}

// Resolution is the text of a provision at a point in time.
type Resolution struct {
	DocumentID   string                   `json:"document_id"`
	ProvisionRef string                   `json:"provision_ref"`
	AsOf         types.Option[types.Date] `json:"as_of"`
	Outcome      Outcome                  `json:"outcome"`
	VersionID    types.Option[int64]      `json:"version_id"`
	Title        types.Option[string]     `json:"title"`
	Content      string                   `json:"content,omitempty"`
	Validity     types.ValidityInterval   `json:"validity"`
}

// Found reports whether the resolution selected a text.
func (r *Resolution) Found() bool {
	return r.Outcome == OutcomeFound
}

// Resolver selects provision text from version history.
type Resolver struct {
	source VersionSource
}

// NewResolver creates a resolver over the given source.
func NewResolver(source VersionSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the provision as it read on asOf. Without a date the
// current snapshot is used. Not finding a text is reported in the
// Resolution's Outcome, not as an error.
func (r *Resolver) Resolve(ctx context.Context, documentID, provisionRef string, asOf types.Option[types.Date]) (*Resolution, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id: %w", types.ErrMissingArgument)
	}
	if provisionRef == "" {
		return nil, fmt.Errorf("provision ref: %w", types.ErrMissingArgument)
	}

	res := &Resolution{
		DocumentID:   documentID,
		ProvisionRef: provisionRef,
		AsOf:         asOf,
	}

	history, err := r.source.ProvisionVersions(ctx, documentID, provisionRef)
	if err != nil {
		return nil, fmt.Errorf("load versions %s %s: %w", documentID, provisionRef, err)
	}

	if date, ok := asOf.Get(); ok {
		if v, ok := SelectVersion(history, date).Get(); ok {
			res.Outcome = OutcomeFound
			res.VersionID = types.Some(v.ID)
			res.Title = v.Title
			res.Content = v.Content
			res.Validity = v.Validity
			return res, nil
		}
		if len(history) > 0 {
			res.Outcome = OutcomeNotInForce
			return res, nil
		}
	}

	current, err := r.source.CurrentProvision(ctx, documentID, provisionRef)
	if err != nil {
		return nil, fmt.Errorf("load provision %s %s: %w", documentID, provisionRef, err)
	}
	p, ok := current.Get()
	switch {
	case ok && asOf.IsNone():
		res.Outcome = OutcomeFound
		res.Title = p.Title
		res.Content = p.Content
	case ok || len(history) > 0:
		res.Outcome = OutcomeNotInForce
	default:
		res.Outcome = OutcomeNeverExisted
	}
	return res, nil
}

// SelectVersion picks the version in force on date. When several qualify it
// prefers the latest non-null ValidFrom, then the highest ID.
func SelectVersion(history []types.ProvisionVersion, date types.Date) types.Option[types.ProvisionVersion] {
	best := -1
	for i, v := range history {
		if !v.Validity.Contains(date) {
			continue
		}
		if best < 0 || preferVersion(v, history[best]) {
			best = i
		}
	}
	if best < 0 {
		return types.None[types.ProvisionVersion]()
	}
	return types.Some(history[best])
}

func preferVersion(candidate, current types.ProvisionVersion) bool {
	cFrom, cOK := candidate.Validity.From.Get()
	bFrom, bOK := current.Validity.From.Get()
	switch {
	case cOK && !bOK:
		return true
	case !cOK && bOK:
		return false
	case cOK && bOK && !cFrom.Equal(bFrom):
		return cFrom.After(bFrom)
	}
	return candidate.ID > current.ID
}
