// Package render provides output rendering for family tree layouts.
//
// # Overview
//
// This package holds format conversion shared by renderers:
//
//   - [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
//     tool (from librsvg)
//   - The [nodelink] subpackage turns a positioned layout into Graphviz DOT
//     and SVG
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
package render
