package citation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coolbeans/lagref/pkg/types"
)

type fakeLookup struct {
	documents  map[string]types.DocumentStatus
	titles     map[string]string
	provisions map[string]bool
	err        error
}

func (f *fakeLookup) DocumentExists(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.documents[id]
	return ok, nil
}

func (f *fakeLookup) ProvisionExists(_ context.Context, id, ref string) (bool, error) {
	return f.provisions[id+"#"+ref], nil
}

func (f *fakeLookup) DocumentStatus(_ context.Context, id string) (types.DocumentStatus, error) {
	return f.documents[id], nil
}

func (f *fakeLookup) DocumentTitle(_ context.Context, id string) (string, error) {
	return f.titles[id], nil
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		documents: map[string]types.DocumentStatus{
			"2018:218": types.StatusInForce,
			"1998:204": types.StatusRepealed,
			"NJA 2020": types.StatusInForce,
		},
		titles: map[string]string{
			"1998:204": "Personuppgiftslag (1998:204)",
		},
		provisions: map[string]bool{
			"2018:218#3:5": true,
			"1998:204#10":  true,
		},
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name              string
		raw               string
		wantValid         bool
		wantExists        bool
		wantProvision     types.Option[bool]
		wantWarning       string
		wantTitlePrefix   string
		wantWarningsEmpty bool
	}{
		{
			name:              "existing provision",
			raw:               "SFS 2018:218 3 kap. 5 §",
			wantValid:         true,
			wantExists:        true,
			wantProvision:     types.Some(true),
			wantTitlePrefix:   "Lag (2018:218)",
			wantWarningsEmpty: true,
		},
		{
			name:          "missing provision",
			raw:           "2018:218 9:9",
			wantValid:     false,
			wantExists:    true,
			wantProvision: types.Some(false),
			wantWarning:   "not found",
		},
		{
			name:            "repealed with existing pinpoint",
			raw:             "SFS 1998:204 10 §",
			wantValid:       true,
			wantExists:      true,
			wantProvision:   types.Some(true),
			wantWarning:     "repealed",
			wantTitlePrefix: "Personuppgiftslag",
		},
		{
			name:          "repealed with missing pinpoint",
			raw:           "SFS 1998:204 99 §",
			wantValid:     false,
			wantExists:    true,
			wantProvision: types.Some(false),
			wantWarning:   "repealed",
		},
		{
			name:          "unknown document",
			raw:           "SFS 2001:1 2 §",
			wantValid:     false,
			wantExists:    false,
			wantProvision: types.Some(false),
			wantWarning:   "document 2001:1 not found",
		},
		{
			name:              "case law page is not a provision",
			raw:               "NJA 2020 s. 45",
			wantValid:         true,
			wantExists:        true,
			wantProvision:     types.None[bool](),
			wantWarningsEmpty: true,
		},
		{
			name:          "unparsable",
			raw:           "inte en hänvisning",
			wantValid:     false,
			wantExists:    false,
			wantProvision: types.None[bool](),
			wantWarning:   ErrorUnrecognized,
		},
	}

	v := NewValidator(newFakeLookup())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("Validate(%q): %v", tt.raw, err)
			}
			if got.Valid != tt.wantValid {
				t.Errorf("Valid: got %v, want %v (warnings %v)", got.Valid, tt.wantValid, got.Warnings)
			}
			if got.DocumentExists != tt.wantExists {
				t.Errorf("DocumentExists: got %v, want %v", got.DocumentExists, tt.wantExists)
			}
			if got.ProvisionExists != tt.wantProvision {
				t.Errorf("ProvisionExists: got %+v, want %+v", got.ProvisionExists, tt.wantProvision)
			}
			if tt.wantWarning != "" && !hasWarning(got.Warnings, tt.wantWarning) {
				t.Errorf("Warnings %v missing %q", got.Warnings, tt.wantWarning)
			}
			if tt.wantWarningsEmpty && len(got.Warnings) != 0 {
				t.Errorf("Warnings: got %v, want none", got.Warnings)
			}
			if tt.wantTitlePrefix != "" {
				title, _ := got.Title.Get()
				if !strings.HasPrefix(title, tt.wantTitlePrefix) {
					t.Errorf("Title: got %q, want prefix %q", title, tt.wantTitlePrefix)
				}
			}
		})
	}
}

func TestValidateRepealedStatus(t *testing.T) {
	got, err := NewValidator(newFakeLookup()).Validate(context.Background(), "SFS 1998:204")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	status, ok := got.Status.Get()
	if !ok || status != types.StatusRepealed {
		t.Errorf("Status: got %q, %v, want %q", status, ok, types.StatusRepealed)
	}
	if !got.Valid {
		t.Error("repeal warning alone should not invalidate a citation without pinpoint")
	}
	if got.Formatted != "SFS 1998:204" {
		t.Errorf("Formatted: got %q, want %q", got.Formatted, "SFS 1998:204")
	}
}

func TestValidateErrors(t *testing.T) {
	if _, err := NewValidator(nil).Validate(context.Background(), "SFS 2018:218"); !errors.Is(err, types.ErrMissingArgument) {
		t.Errorf("nil lookup: got %v, want ErrMissingArgument", err)
	}

	boom := errors.New("connection refused")
	_, err := NewValidator(&fakeLookup{err: boom}).Validate(context.Background(), "SFS 2018:218")
	if !errors.Is(err, boom) {
		t.Errorf("lookup failure: got %v, want wrapped %v", err, boom)
	}
}
