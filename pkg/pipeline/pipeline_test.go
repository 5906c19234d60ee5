package pipeline

import (
	"testing"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/familytree"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateDirection(t *testing.T) {
	for _, d := range []string{"ancestors", "descendants", "both"} {
		if err := ValidateDirection(d); err != nil {
			t.Errorf("ValidateDirection(%q) = %v", d, err)
		}
	}
	if err := ValidateDirection("sideways"); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("ValidateDirection(sideways) = %v", err)
	}
}

func TestValidateOrientation(t *testing.T) {
	if err := ValidateOrientation("horizontal"); err != nil {
		t.Errorf("horizontal: %v", err)
	}
	if err := ValidateOrientation("diagonal"); !errors.Is(err, errors.ErrCodeInvalidOrientation) {
		t.Errorf("diagonal: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Root: " Q1 "}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Root != "Q1" {
		t.Errorf("Root = %q, want trimmed", opts.Root)
	}
	if opts.Direction != string(DefaultDirection) {
		t.Errorf("Direction = %q", opts.Direction)
	}
	if opts.MaxDepth == nil || *opts.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %v", opts.MaxDepth)
	}
	if opts.Orientation != string(DefaultOrientation) {
		t.Errorf("Orientation = %q", opts.Orientation)
	}
	if opts.ViewportWidth != DefaultViewportWidth || opts.Concurrency != DefaultConcurrency {
		t.Errorf("ViewportWidth = %v, Concurrency = %d", opts.ViewportWidth, opts.Concurrency)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	tree := opts.TreeOptions()
	if tree.Direction != familytree.Ancestors || !tree.IncludeBothParents {
		t.Errorf("TreeOptions = %+v", tree)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"EmptyRoot", Options{}, errors.ErrCodeInvalidInput},
		{"SlashRoot", Options{Root: "a/b"}, errors.ErrCodeInvalidInput},
		{"Direction", Options{Root: "Q1", Direction: "sideways"}, errors.ErrCodeInvalidDirection},
		{"NegativeDepth", Options{Root: "Q1", MaxDepth: Depth(-1)}, errors.ErrCodeInvalidDepth},
		{"HugeDepth", Options{Root: "Q1", MaxDepth: Depth(1000)}, errors.ErrCodeInvalidDepth},
		{"Orientation", Options{Root: "Q1", Orientation: "diagonal"}, errors.ErrCodeInvalidOrientation},
		{"Viewport", Options{Root: "Q1", ViewportWidth: -5}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Root: "Q1", Direction: "Descendants", Orientation: "HORIZONTAL", FatherOnly: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.TreeKeyOpts()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.TreeKeyOpts() != first {
		t.Errorf("second call changed options: %+v vs %+v", opts.TreeKeyOpts(), first)
	}
	if first.Direction != "descendants" || first.Orientation != "horizontal" || first.IncludeBothParents {
		t.Errorf("TreeKeyOpts = %+v", first)
	}
}

func TestOptionsShouldEnrich(t *testing.T) {
	if !(&Options{}).ShouldEnrich() {
		t.Error("enrichment should be on by default")
	}
	if (&Options{SkipImages: true}).ShouldEnrich() {
		t.Error("SkipImages should disable enrichment")
	}
}
