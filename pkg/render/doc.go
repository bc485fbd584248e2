// Package render groups the visual output formats for resolved dependency
// graphs.
//
// Text and JSON output live with the CLI; this tree holds renderers that
// need a layout engine. The [nodelink] subpackage renders Graphviz
// node-link diagrams as DOT source or SVG.
//
// [nodelink]: github.com/matzehuels/offpack/pkg/render/nodelink
package render
