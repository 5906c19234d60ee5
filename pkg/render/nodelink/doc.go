// Package nodelink renders family tree layouts as node-link diagrams.
//
// # Overview
//
// Nodes appear as rounded boxes holding a name and lifespan, connected by
// undirected parent-child lines. Positions come from the layout engine and
// are pinned, so Graphviz only draws; it never moves a node.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT uses the neato engine with inputscale=72 so that every
// pos attribute is read in points, matching layout units one to one. The
// layout's Y axis points down while Graphviz's points up; [ToDOT] flips it.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
