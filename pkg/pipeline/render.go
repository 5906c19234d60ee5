package pipeline

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
)

// Artifacts generates output in the requested formats from a layout.
// FormatText is not handled here; it is a presentation concern of the CLI.
func Artifacts(l graph.Layout, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string
	for _, format := range formats {
		if err := ValidateFormat(format); err != nil {
			return nil, err
		}
		if format == FormatText {
			return nil, fmt.Errorf("format %s is rendered by the caller", format)
		}
		if dot == "" && format != FormatJSON {
			dot = nodelink.ToDOT(l, nodelink.Options{Detailed: detailed, HighlightRoot: true})
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
