// Package rules defines build rules and the jobs they resolve to.
//
// A Rule declares an output tree of path templates, and optionally input and
// require trees, a name template and a body:
//
//	report, _ := rules.New(rules.Options{
//		Name:   "report_{sample}",
//		Output: pathtree.Of("report_{sample}.txt"),
//		Input:  rules.Paths("data/{sample}.csv"),
//	})
//
// # Resolution
//
// Output templates are compiled when the rule is built, so a malformed
// template fails immediately. ResolveTarget tries the output leaves in
// flatten order and the first leaf that matches the target wins. Resolve,
// without a target, only succeeds when the output declares no wildcards.
//
// # Jobs
//
// A Job is a rule bound to a set of wildcard values. Its output is rendered
// when the job is built; input and require are rendered on each access. An
// input leaf is either a Path template, rendered with the job's bindings, or
// a Func computing a whole subtree from them.
//
// Rules are not safe for concurrent mutation: SetInput and SetRequire must
// only be called while the workflow is being defined, before any resolution.
package rules
