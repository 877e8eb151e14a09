package citation

import (
	"context"
	"fmt"

	"github.com/coolbeans/lagref/pkg/types"
)

// Lookup is the read side of the corpus a Validator checks citations against.
type Lookup interface {
	DocumentExists(ctx context.Context, documentID string) (bool, error)
	ProvisionExists(ctx context.Context, documentID, provisionRef string) (bool, error)
	DocumentStatus(ctx context.Context, documentID string) (types.DocumentStatus, error)
	DocumentTitle(ctx context.Context, documentID string) (string, error)
}

// ValidationResult reports whether a citation parses and points at something
// that exists in the corpus. Warnings are advisory.
type ValidationResult struct {
	Citation        ParsedCitation                     `json:"citation"`
	Valid           bool                               `json:"valid"`
	DocumentExists  bool                               `json:"document_exists"`
	ProvisionExists types.Option[bool]                 `json:"provision_exists"`
	Status          types.Option[types.DocumentStatus] `json:"status"`
	Title           types.Option[string]               `json:"title"`
	Formatted       string                             `json:"formatted"`
	Warnings        []string                           `json:"warnings"`
}

// Validator checks citations against a corpus.
type Validator struct {
	grammar *Grammar
	lookup  Lookup
}

// NewValidator creates a validator over the given lookup.
func NewValidator(lookup Lookup) *Validator {
	return &Validator{grammar: defaultGrammar, lookup: lookup}
}

// Validate parses raw and checks the document and any section pinpoint
// against the corpus. Lookup failures are returned as errors; a citation that
// does not parse or does not resolve is reported in the result.
func (v *Validator) Validate(ctx context.Context, raw string) (*ValidationResult, error) {
	if v == nil || v.lookup == nil {
		return nil, fmt.Errorf("validator lookup: %w", types.ErrMissingArgument)
	}

	parsed := v.grammar.Parse(raw)
	result := &ValidationResult{
		Citation:  parsed,
		Formatted: Format(parsed, StyleFull),
		Warnings:  []string{},
	}
	if !parsed.Valid {
		result.Warnings = append(result.Warnings, parsed.Error)
		return result, nil
	}

	exists, err := v.lookup.DocumentExists(ctx, parsed.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("check document %s: %w", parsed.DocumentID, err)
	}
	result.DocumentExists = exists

	if !exists {
		result.Warnings = append(result.Warnings, fmt.Sprintf("document %s not found", parsed.DocumentID))
	} else {
		status, err := v.lookup.DocumentStatus(ctx, parsed.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("document status %s: %w", parsed.DocumentID, err)
		}
		if status != "" {
			result.Status = types.Some(status)
		}
		if status == types.StatusRepealed {
			result.Warnings = append(result.Warnings, fmt.Sprintf("document %s is repealed", parsed.DocumentID))
		}

		title, err := v.lookup.DocumentTitle(ctx, parsed.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("document title %s: %w", parsed.DocumentID, err)
		}
		result.Title = types.SomeIfNonEmpty(title)
	}
	if result.Title.IsNone() {
		if known, ok := LookupKnownStatute(parsed.DocumentID); ok && parsed.Type == types.DocumentTypeStatute {
			result.Title = types.Some(known.Title)
		}
	}

	pinpointOK := true
	if ref, ok := parsed.ProvisionRef().Get(); ok {
		found := false
		if exists {
			found, err = v.lookup.ProvisionExists(ctx, parsed.DocumentID, ref)
			if err != nil {
				return nil, fmt.Errorf("check provision %s %s: %w", parsed.DocumentID, ref, err)
			}
		}
		result.ProvisionExists = types.Some(found)
		if !found {
			pinpointOK = false
			result.Warnings = append(result.Warnings, fmt.Sprintf("provision %s not found in %s", formatPinpoint(parsed.Pinpoint), parsed.DocumentID))
		}
	}

	result.Valid = exists && pinpointOK
	return result, nil
}
