// Package pipeline provides the core family tree pipeline for Lineage.
//
// This package implements the complete fetch → build → enrich → layout
// pipeline used by the CLI, the HTTP server and the interactive browser. By
// centralizing this logic, every entry point renders the same tree for the
// same options.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: Load the flat people list from a [DataSource]
//  2. Build: Walk parent links from the selected root ([familytree.Build])
//  3. Enrich: Resolve an image for every tree node ([enrich.Enrich])
//  4. Layout: Assign coordinates and center the viewport ([layout.Compute])
//
// Fetch runs rarely; the other stages run on every root selection and are
// cached by snapshot hash and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(source, resolver, cache, nil, logger)
//	data, err := runner.Load(ctx, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Render(ctx, data, pipeline.Options{Root: "Q1"})
//	if result.Empty() {
//	    fmt.Println("No family data available.")
//	}
//
// Interactive front ends use a [View], which keeps the current snapshot and
// root and discards renders superseded by a newer selection.
//
// [familytree.Build]: github.com/matzehuels/lineage/pkg/familytree.Build
// [enrich.Enrich]: github.com/matzehuels/lineage/pkg/enrich.Enrich
// [layout.Compute]: github.com/matzehuels/lineage/pkg/layout.Compute
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/familytree"
	"github.com/matzehuels/lineage/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Browser
// =============================================================================

const (
	// DefaultMaxDepth is the number of generations followed from the root.
	DefaultMaxDepth = familytree.DefaultMaxDepth

	// DefaultViewportWidth is the viewport width used to center the root.
	DefaultViewportWidth = 1200.0

	// DefaultConcurrency caps concurrent image lookups.
	DefaultConcurrency = enrich.DefaultConcurrency
)

// DefaultDirection is the default traversal direction.
const DefaultDirection = familytree.Ancestors

// DefaultOrientation is the default layout orientation.
const DefaultOrientation = layout.Vertical

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidDirections is the set of supported traversal directions.
var ValidDirections = map[string]bool{
	string(familytree.Ancestors):   true,
	string(familytree.Descendants): true,
	string(familytree.Both):        true,
}

// ValidOrientations is the set of supported layout orientations.
var ValidOrientations = map[string]bool{
	string(layout.Vertical):   true,
	string(layout.Horizontal): true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for rendering one tree.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Root       string `json:"root"`
	Direction  string `json:"direction,omitempty"`
	MaxDepth   *int   `json:"max_depth,omitempty"`   // nil means DefaultMaxDepth; 0 is the root alone
	FatherOnly bool   `json:"father_only,omitempty"` // ancestors: skip mother links

	// Enrich options
	SkipImages  bool `json:"skip_images,omitempty"`
	Concurrency int  `json:"concurrency,omitempty"`

	// Layout options
	Orientation   string  `json:"orientation,omitempty"`
	ViewportWidth float64 `json:"viewport_width,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger        `json:"-"`
	Generation *enrich.Generation `json:"-"`
	Token      enrich.Token       `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: text, json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateDirection checks that a direction is valid.
func ValidateDirection(direction string) error {
	if !ValidDirections[direction] {
		return errors.New(errors.ErrCodeInvalidDirection,
			"invalid direction: %q (must be one of: ancestors, descendants, both)", direction)
	}
	return nil
}

// ValidateOrientation checks that an orientation is valid.
func ValidateOrientation(orientation string) error {
	if !ValidOrientations[orientation] {
		return errors.New(errors.ErrCodeInvalidOrientation,
			"invalid orientation: %q (must be one of: vertical, horizontal)", orientation)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Root = strings.TrimSpace(o.Root)
	if err := errors.ValidatePersonID(o.Root); err != nil {
		return err
	}

	o.Direction = strings.ToLower(strings.TrimSpace(o.Direction))
	if o.Direction == "" {
		o.Direction = string(DefaultDirection)
	}
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}

	if o.MaxDepth == nil {
		o.MaxDepth = Depth(DefaultMaxDepth)
	}
	if err := errors.ValidateDepth(*o.MaxDepth); err != nil {
		return err
	}

	o.Orientation = strings.ToLower(strings.TrimSpace(o.Orientation))
	if o.Orientation == "" {
		o.Orientation = string(DefaultOrientation)
	}
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}

	if o.ViewportWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport width must not be negative")
	}
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Depth returns a MaxDepth value for n.
func Depth(n int) *int { return &n }

// Depth returns the generation bound, DefaultMaxDepth when unset.
func (o *Options) Depth() int {
	if o.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *o.MaxDepth
}

// TreeOptions returns the traversal options for [familytree.Build].
func (o *Options) TreeOptions() familytree.Options {
	return familytree.Options{
		Direction:          familytree.Direction(o.Direction),
		MaxDepth:           o.Depth(),
		IncludeBothParents: !o.FatherOnly,
	}
}

// LayoutOrientation returns the orientation as a [layout.Orientation].
func (o *Options) LayoutOrientation() layout.Orientation {
	return layout.Orientation(o.Orientation)
}

// ShouldEnrich returns whether image enrichment should be performed.
func (o *Options) ShouldEnrich() bool {
	return !o.SkipImages
}

// TreeKeyOpts returns cache key options for a rendered tree.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Root:               o.Root,
		Direction:          o.Direction,
		MaxDepth:           o.Depth(),
		IncludeBothParents: !o.FatherOnly,
		Orientation:        o.Orientation,
		ViewportWidth:      int(o.ViewportWidth),
		Images:             o.ShouldEnrich(),
	}
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("%s/%s/%d/%s", o.Root, o.Direction, o.Depth(), o.Orientation)
}
