// Package workflowfile loads declarative workflow definitions.
//
// A workflow file lists rules in TOML or YAML:
//
//	[[rule]]
//	name = "report_{sample}"
//	output = "report_{sample}.txt"
//	input = { table = "data/{sample}.csv", config = "report.toml" }
//	command = "summarize {input} > {output}"
//
//	[[rule]]
//	name = "all"
//	input = ["report_a.txt", "report_b.txt"]
//	default = true
//
// output, input and require accept a string, a list or a table, nested to
// any depth. YAML keeps the key order of tables; TOML tables are decoded
// with their keys sorted.
//
// Rules are registered in file order. A rule with a command gets a body that
// renders the command and writes it to the configured sink; commands are
// never executed.
package workflowfile
