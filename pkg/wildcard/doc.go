// Package wildcard implements the path template language used by yawms rules.
//
// A template is a path string with embedded wildcard tokens:
//
//   - `data/{sample}.csv` - a wildcard named "sample" capturing one or more characters
//   - `{w,a{3,5}}.txt` - a wildcard with a constraint; one level of `{m,n}`
//     repetition braces may appear inside the constraint
//   - `{run}/{sample}_{run}.log` - a repeated name is a back-reference and must
//     capture exactly the text of its first occurrence
//
// Only the first occurrence of a name may carry a constraint. Braces that do
// not form a token are treated as literal text, as is every regular
// expression metacharacter outside a constraint.
//
// Compile turns a template into a Wildcard that matches whole strings and
// returns the captured Bindings. Apply renders a template from Bindings and is
// used for input, require and name templates.
package wildcard
