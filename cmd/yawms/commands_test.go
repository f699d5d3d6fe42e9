package yawms

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/rules"
	"github.com/dfm/yawms/pkg/testutil"
	"github.com/dfm/yawms/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkflow = `
rule:
  - name: data_{sample}
    output: data/{sample}.csv
    command: fetch {sample} > {output}

  - name: report_{sample}
    output: report_{sample}.txt
    input:
      table: data/{sample}.csv
      config: report.toml
    command: summarize {input} > {output}

  - name: all
    input: [report_a.txt, report_b.txt]
    default: true
`

// isolate points config and log paths at a temp dir and returns a workflow
// file written there
func isolate(t *testing.T) (dir, file string) {
	t.Helper()
	env := testutil.NewEnvironment(t)
	return env.Root, env.WriteFile("Yawmsfile.yaml", testWorkflow)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Structure(t *testing.T) {
	root := NewRootCmd()

	groups := map[string]string{}
	for _, c := range root.Commands() {
		groups[c.Name()] = c.GroupID
	}
	assert.Equal(t, map[string]string{
		"resolve":    "core",
		"run":        "core",
		"rules":      "core",
		"match":      "core",
		"version":    "misc",
		"completion": "misc",
		"man":        "misc",
		"help":       "misc",
	}, groups)

	for _, name := range []string{"verbose", "file", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_NoCommand(t *testing.T) {
	isolate(t)
	_, err := execute(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolve(t *testing.T) {
	_, file := isolate(t)

	t.Run("path_target", func(t *testing.T) {
		out, err := execute(t, "resolve", "-f", file, "-o", "text", "report_a.txt")
		require.NoError(t, err)
		assert.Contains(t, out, "report_a\n")
		assert.Contains(t, out, "  bindings  sample=a\n")
		assert.Contains(t, out, "  input     table=data/a.csv config=report.toml\n")
	})

	t.Run("default_rule", func(t *testing.T) {
		out, err := execute(t, "resolve", "-f", file, "-o", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "all\n")
		assert.Contains(t, out, "  input     report_a.txt report_b.txt\n")
	})

	t.Run("rule_by_name", func(t *testing.T) {
		out, err := execute(t, "resolve", "-f", file, "-o", "json", ":all", "data/b.csv")
		require.NoError(t, err)

		var jobs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &jobs))
		require.Len(t, jobs, 2)
		assert.Equal(t, "all", jobs[0]["name"])
		assert.Equal(t, "data_b", jobs[1]["name"])
		assert.Equal(t, "data/b.csv", jobs[1]["output"])
	})

	t.Run("wildcard_rule_by_name_is_ambiguous", func(t *testing.T) {
		_, err := execute(t, "resolve", "-f", file, ":report_{sample}")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousResolution))
	})

	t.Run("unknown_rule_name", func(t *testing.T) {
		_, err := execute(t, "resolve", "-f", file, ":nope")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidTarget))
	})

	t.Run("no_rule_for_target", func(t *testing.T) {
		_, err := execute(t, "resolve", "-f", file, "unknown.bin")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoRuleForTarget))
	})
}

func TestResolve_FindsWorkflowInWorkingDir(t *testing.T) {
	dir, _ := isolate(t)
	t.Chdir(dir)

	out, err := execute(t, "resolve", "-o", "text", "report_b.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "report_b\n")
}

func TestResolve_NoWorkflowFile(t *testing.T) {
	isolate(t)
	t.Chdir(t.TempDir())

	_, err := execute(t, "resolve")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestResolve_FormatFromEnv(t *testing.T) {
	_, file := isolate(t)
	t.Setenv("YAWMS_OUTPUT_FORMAT", "yaml")

	out, err := execute(t, "resolve", "-f", file, "data/a.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "- name: data_a\n")
}

func TestRun_PrintsCommands(t *testing.T) {
	_, file := isolate(t)

	out, err := execute(t, "run", "-f", file, "report_a.txt", "data/b.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"summarize data/a.csv report.toml > report_a.txt\nfetch b > data/b.csv\n",
		out)
}

func TestRun_DefaultWithoutCommand(t *testing.T) {
	_, file := isolate(t)

	out, err := execute(t, "run", "-f", file)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRules(t *testing.T) {
	_, file := isolate(t)

	out, err := execute(t, "rules", "-f", file, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "0  data_{sample}")
	assert.Contains(t, out, "default\n")

	out, err = execute(t, "rules", "-f", file, "-o", "json")
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, true, listed[2]["default"])
	assert.Equal(t, []any{"sample"}, listed[1]["wildcards"])
}

func TestMatch(t *testing.T) {
	isolate(t)

	out, err := execute(t, "match", "-o", "text", "{x}-{y}.txt", "p-q-r.txt", "pq.txt")
	require.NoError(t, err)
	assert.Equal(t, "{x}-{y}.txt\n  p-q-r.txt  x=p-q y=r\n  pq.txt     no match\n", out)

	_, err = execute(t, "match", "{x,a}{x,b}", "ab")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateConstraint))

	_, err = execute(t, "match", "{x}")
	require.Error(t, err)
}

func TestWorkflowErrors(t *testing.T) {
	dir, _ := isolate(t)
	bad := testutil.CreateFile(t, dir, "bad.toml", "[[rule]]\ninput = \"a\"\n")

	_, err := execute(t, "rules", "-f", bad)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "yawms version dev")
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "yawms")

	_, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestMan(t *testing.T) {
	dir, _ := isolate(t)
	manDir := filepath.Join(dir, "man")
	require.NoError(t, os.MkdirAll(manDir, 0755))

	_, err := execute(t, "man", "--dir", manDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(manDir, "yawms.1"))
	assert.FileExists(t, filepath.Join(manDir, "yawms-resolve.1"))
}

func TestHelpTopics(t *testing.T) {
	isolate(t)

	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	for _, topic := range []string{"wildcards", "workflow-files", "--format"} {
		assert.Contains(t, out, topic)
	}

	out, err = execute(t, "help", "wildcards")
	require.NoError(t, err)
	assert.Contains(t, out, "Constraints")
}

func TestTargets(t *testing.T) {
	wf := workflow.New()
	all, err := wf.Register(rules.Options{Name: "all", Input: rules.Paths("a.txt")})
	require.NoError(t, err)

	got, err := targets(wf, []string{":all", "a.txt", "dir/:odd"})
	require.NoError(t, err)
	assert.Equal(t, []any{all, "a.txt", "dir/:odd"}, got)

	_, err = targets(wf, []string{":missing"})
	require.Error(t, err)
	assert.Equal(t, ":missing", errors.GetErrorDetails(err)["target"])
}
