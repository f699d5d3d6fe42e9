// Package output renders jobs, rules and matches for the command line.
//
// Four formats are supported: term (styled with lipgloss), text (plain,
// stable for scripts and snapshots), json and yaml. Auto picks term or text
// from the writer's terminal capabilities.
//
// Renderers work on views, plain structs built from rules and jobs. Path
// trees keep their shape in every format: json and yaml emit mappings in
// declaration order, text and term print them inline as key=value pairs.
package output
