package wildcard

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dlclark/regexp2"
)

// defaultConstraint matches one or more characters
const defaultConstraint = ".+"

// Wildcard is a compiled output template. It is immutable once built.
type Wildcard struct {
	pattern string
	expr    string
	re      *regexp2.Regexp
	names   []string
}

// Compile parses a template and builds a whole-string matcher for it
func Compile(pattern string) (*Wildcard, error) {
	var expr strings.Builder
	expr.WriteString(`\A`)

	seen := make(map[string]bool)
	var names []string
	for _, tok := range Scan(pattern) {
		if tok.Kind == LiteralToken {
			expr.WriteString(regexp2.Escape(tok.Text))
			continue
		}

		if !validName(tok.Name) {
			return nil, errors.Newf(errors.ErrInvalidPattern,
				"invalid wildcard name %q in %q", tok.Name, pattern).
				WithDetail("pattern", pattern).
				WithDetail("wildcard", tok.Name)
		}

		if seen[tok.Name] {
			if tok.Constraint != "" {
				return nil, errors.Newf(errors.ErrDuplicateConstraint,
					"constraint for wildcard %q in %q must be defined only in its first occurrence",
					tok.Name, pattern).
					WithDetail("pattern", pattern).
					WithDetail("wildcard", tok.Name)
			}
			fmt.Fprintf(&expr, `\k<%s>`, tok.Name)
			continue
		}

		seen[tok.Name] = true
		names = append(names, tok.Name)
		constraint := tok.Constraint
		if constraint == "" {
			constraint = defaultConstraint
		}
		fmt.Fprintf(&expr, "(?<%s>%s)", tok.Name, constraint)
	}
	expr.WriteString(`\z`)

	re, err := regexp2.Compile(expr.String(), regexp2.None)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPattern,
			"cannot compile template %q", pattern).
			WithDetail("pattern", pattern)
	}

	return &Wildcard{
		pattern: pattern,
		expr:    expr.String(),
		re:      re,
		names:   names,
	}, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(pattern string) *Wildcard {
	w, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return w
}

// Pattern returns the template the wildcard was compiled from
func (w *Wildcard) Pattern() string {
	return w.pattern
}

// Expr returns the compiled expression
func (w *Wildcard) Expr() string {
	return w.expr
}

// Names returns the distinct wildcard names in order of first occurrence
func (w *Wildcard) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Match tests the whole candidate string. On success every declared name is
// bound to its captured text.
func (w *Wildcard) Match(candidate string) (Bindings, bool) {
	m, err := w.re.FindStringMatch(candidate)
	if err != nil || m == nil {
		return nil, false
	}
	b := make(Bindings, len(w.names))
	for _, name := range w.names {
		if g := m.GroupByName(name); g != nil {
			b[name] = g.String()
		}
	}
	return b, true
}

func (w *Wildcard) String() string {
	return fmt.Sprintf("<Wildcard %s>", w.pattern)
}

// Apply renders template by replacing every wildcard token with its binding.
// A token whose name is not bound fails with ErrUnresolvedWildcard; the error
// carries the name and the known bindings as details.
func Apply(b Bindings, template string) (string, error) {
	var out strings.Builder
	for _, tok := range Scan(template) {
		if tok.Kind == LiteralToken {
			out.WriteString(tok.Text)
			continue
		}
		v, ok := b[tok.Name]
		if !ok {
			return "", Unresolved(tok.Name, b)
		}
		out.WriteString(v)
	}
	return out.String(), nil
}

// Unresolved builds the error reported when name has no binding
func Unresolved(name string, b Bindings) *errors.Error {
	return errors.Newf(errors.ErrUnresolvedWildcard,
		"needed wildcard %s, but only found:\n%s", name, b.Describe()).
		WithDetail("wildcard", name).
		WithDetail("bindings", b.Clone())
}

// UnresolvedName returns the wildcard name carried by an ErrUnresolvedWildcard error
func UnresolvedName(err error) (string, bool) {
	if !errors.IsErrorCode(err, errors.ErrUnresolvedWildcard) {
		return "", false
	}
	name, ok := errors.GetErrorDetails(err)["wildcard"].(string)
	return name, ok
}

func validName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsDigit(r)
}
