package output

import (
	"bytes"
	"testing"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/dfm/yawms/pkg/rules"
	"github.com/dfm/yawms/pkg/wildcard"
	"github.com/dfm/yawms/pkg/workflow"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// fixture registers a small analysis workflow with flat, nested and
// output-less rules
func fixture(t *testing.T) *workflow.Workflow {
	t.Helper()
	wf := workflow.New()

	input, err := pathtree.NewMapping(
		pathtree.Entry[string]{Key: "table", Value: pathtree.Of("data/{sample}.csv")},
		pathtree.Entry[string]{Key: "config", Value: pathtree.Of("report.toml")},
	)
	require.NoError(t, err)
	_, err = wf.Register(rules.Options{
		Name:   "report_{sample}",
		Body:   func(*rules.Job) error { return nil },
		Output: pathtree.Of("report_{sample}.txt"),
		Input:  rules.Templates(input),
	})
	require.NoError(t, err)

	plots, err := pathtree.NewMapping(
		pathtree.Entry[string]{Key: "figs", Value: pathtree.List("{run}/fig1.png", "{run}/fig2.png")},
		pathtree.Entry[string]{Key: "log", Value: pathtree.Of("{run}/plot.log")},
	)
	require.NoError(t, err)
	_, err = wf.Register(rules.Options{
		Name:    "plots_{run}",
		Output:  plots,
		Require: rules.Paths("style.mplstyle"),
	})
	require.NoError(t, err)

	_, err = wf.RegisterDefault(rules.Options{
		Name:  "all",
		Input: rules.Paths("report_a.txt", "report_b.txt"),
	})
	require.NoError(t, err)
	return wf
}

func fixtureJobs(t *testing.T, wf *workflow.Workflow) []JobView {
	t.Helper()
	jobs, err := wf.Run("report_a.txt", "b/plot.log", wf.Default())
	require.NoError(t, err)
	views, err := NewJobViews(jobs)
	require.NoError(t, err)
	return views
}

func render(t *testing.T, format Format, fn func(*Renderer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewRenderer(format, &buf)
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.Bytes()
}

func TestJobs_Golden(t *testing.T) {
	wf := fixture(t)
	views := fixtureJobs(t, wf)
	g := newGoldie(t)

	g.Assert(t, "jobs_text", render(t, FormatText, func(r *Renderer) error { return r.Jobs(views) }))
	g.Assert(t, "jobs_json", render(t, FormatJSON, func(r *Renderer) error { return r.Jobs(views) }))
}

func TestRules_Golden(t *testing.T) {
	views := NewRuleViews(fixture(t))
	g := newGoldie(t)

	g.Assert(t, "rules_text", render(t, FormatText, func(r *Renderer) error { return r.Rules(views) }))
	g.Assert(t, "rules_json", render(t, FormatJSON, func(r *Renderer) error { return r.Rules(views) }))
}

func TestMatches_Golden(t *testing.T) {
	pair := wildcard.MustCompile("{x}-{y}.txt")
	csv := wildcard.MustCompile("{n}.csv")
	views := []MatchView{
		NewMatchView(pair, "p-q.txt"),
		NewMatchView(pair, "pq.txt"),
		NewMatchView(csv, "a.csv"),
	}

	assert.True(t, views[0].Matched)
	assert.False(t, views[1].Matched)
	assert.Nil(t, views[1].Bindings)

	newGoldie(t).Assert(t, "matches_text", render(t, FormatText, func(r *Renderer) error { return r.Matches(views) }))
}

func TestJobs_YAMLKeepsMappingOrder(t *testing.T) {
	views := fixtureJobs(t, fixture(t))
	out := string(render(t, FormatYAML, func(r *Renderer) error { return r.Jobs(views[:1]) }))

	assert.Contains(t, out, "name: report_a\n")
	assert.Contains(t, out, "sample: a\n")
	table := bytes.Index([]byte(out), []byte("table: data/a.csv"))
	config := bytes.Index([]byte(out), []byte("config: report.toml"))
	require.NotEqual(t, -1, table)
	require.NotEqual(t, -1, config)
	assert.Less(t, table, config)
	assert.NotContains(t, out, "require")
}

func TestTerminal_NoColorOnBuffer(t *testing.T) {
	views := NewRuleViews(fixture(t))
	term := render(t, FormatTerminal, func(r *Renderer) error { return r.Rules(views) })
	text := render(t, FormatText, func(r *Renderer) error { return r.Rules(views) })

	// a buffer is not a color terminal, so styles render as plain text
	assert.Equal(t, string(text), string(term))
}

func TestAuto_NonFileIsTerminal(t *testing.T) {
	r, err := NewRenderer(FormatAuto, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, FormatTerminal, r.Format())
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer(Format(42), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestError(t *testing.T) {
	err := errors.New(errors.ErrNoRuleForTarget, "no rule found for target x.txt")

	text := render(t, FormatText, func(r *Renderer) error { return r.Error(err) })
	assert.Equal(t, "error: [NO_RULE_FOR_TARGET] no rule found for target x.txt\n", string(text))

	js := render(t, FormatJSON, func(r *Renderer) error { return r.Error(err) })
	assert.JSONEq(t, `{"error": "[NO_RULE_FOR_TARGET] no rule found for target x.txt", "code": "NO_RULE_FOR_TARGET"}`, string(js))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "done\n", string(render(t, FormatText, func(r *Renderer) error { return r.Message("done") })))
	assert.Equal(t, "message: done\n", string(render(t, FormatYAML, func(r *Renderer) error { return r.Message("done") })))
}

func TestInline(t *testing.T) {
	nested, err := pathtree.NewMapping(
		pathtree.Entry[string]{Key: "a", Value: pathtree.List("x", "y")},
		pathtree.Entry[string]{Key: "b", Value: pathtree.Sequence[string]{
			pathtree.Of("z"),
			pathtree.Mapping[string]{{Key: "c", Value: pathtree.Of("w")}},
		}},
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		node pathtree.Node[string]
		want string
	}{
		{"nil", nil, "-"},
		{"leaf", pathtree.Of("a.txt"), "a.txt"},
		{"sequence", pathtree.List("a", "b"), "a b"},
		{"empty_sequence", pathtree.Sequence[string]{}, "[]"},
		{"nested", nested, "a=[x y] b=[z {c=w}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inline(tt.node, false))
		})
	}
}

func TestNewJobView_ComputedInputError(t *testing.T) {
	r, err := rules.New(rules.Options{
		Output: pathtree.Of("{x}.txt"),
		Input: rules.Computed(func(wildcard.Bindings) (pathtree.Node[string], error) {
			return nil, errors.New(errors.ErrInvalidInput, "boom")
		}),
	})
	require.NoError(t, err)
	job, err := r.ResolveTarget("a.txt")
	require.NoError(t, err)

	_, err = NewJobView(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRuleViews_ComputedInput(t *testing.T) {
	wf := workflow.New()
	_, err := wf.Register(rules.Options{
		Output: pathtree.Of("{x}.txt"),
		Input: rules.Computed(func(wildcard.Bindings) (pathtree.Node[string], error) {
			return nil, nil
		}),
	})
	require.NoError(t, err)

	views := NewRuleViews(wf)
	require.Len(t, views, 1)
	assert.Equal(t, "<computed>", inline(views[0].Input, false))
	assert.Equal(t, []string{"x"}, views[0].Wildcards)
}
