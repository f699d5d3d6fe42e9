package pathtree_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTree(t *testing.T) pathtree.Node[string] {
	t.Helper()
	m, err := pathtree.NewMapping(
		pathtree.Entry[string]{Key: "tables", Value: pathtree.List("a.csv", "b.csv")},
		pathtree.Entry[string]{Key: "log", Value: pathtree.Of("run.log")},
	)
	require.NoError(t, err)
	return pathtree.Sequence[string]{pathtree.Of("first.txt"), m}
}

func TestFlatten(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, []string{"x"}, pathtree.Flatten(pathtree.Of("x")))
	})

	t.Run("nested_order", func(t *testing.T) {
		got := pathtree.Flatten(sampleTree(t))
		assert.Equal(t, []string{"first.txt", "a.csv", "b.csv", "run.log"}, got)
	})

	t.Run("nil_tree", func(t *testing.T) {
		assert.Empty(t, pathtree.Flatten[string](nil))
	})

	t.Run("infers_leaf_type", func(t *testing.T) {
		var ints pathtree.Node[int] = pathtree.List(3, 1)
		assert.Equal(t, []int{3, 1}, pathtree.Flatten(ints))
	})
}

func TestNode_TypedByLeaf(t *testing.T) {
	var n any = pathtree.List(1, 2)
	_, isStrings := n.(pathtree.Node[string])
	assert.False(t, isStrings)
	_, isInts := n.(pathtree.Node[int])
	assert.True(t, isInts)
}

func TestMap(t *testing.T) {
	t.Run("preserves_shape", func(t *testing.T) {
		mapped, err := pathtree.Map(sampleTree(t), func(s string) (string, error) {
			return "out/" + s, nil
		})
		require.NoError(t, err)

		seq, ok := mapped.(pathtree.Sequence[string])
		require.True(t, ok)
		require.Len(t, seq, 2)
		assert.Equal(t, pathtree.Of("out/first.txt"), seq[0])

		m, ok := seq[1].(pathtree.Mapping[string])
		require.True(t, ok)
		assert.Equal(t, []string{"tables", "log"}, m.Keys())
		tables, ok := m.Get("tables")
		require.True(t, ok)
		assert.Equal(t, pathtree.List("out/a.csv", "out/b.csv"), tables)
	})

	t.Run("changes_leaf_type", func(t *testing.T) {
		mapped, err := pathtree.Map(pathtree.List("a", "bb"), func(s string) (int, error) {
			return len(s), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, pathtree.Flatten(mapped))
	})

	t.Run("stops_on_error", func(t *testing.T) {
		calls := 0
		_, err := pathtree.Map(pathtree.List("a", "b", "c"), func(s string) (string, error) {
			calls++
			if s == "b" {
				return "", fmt.Errorf("boom")
			}
			return s, nil
		})
		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("nil_tree", func(t *testing.T) {
		mapped, err := pathtree.Map[string, string](nil, func(s string) (string, error) { return s, nil })
		assert.NoError(t, err)
		assert.Nil(t, mapped)
	})
}

func TestExpand(t *testing.T) {
	expanded, err := pathtree.Expand(pathtree.List("a", "b"), func(s string) (pathtree.Node[string], error) {
		if s == "b" {
			return pathtree.List("b1", "b2"), nil
		}
		return pathtree.Of(s), nil
	})
	require.NoError(t, err)

	seq := expanded.(pathtree.Sequence[string])
	assert.Equal(t, pathtree.Of("a"), seq[0])
	assert.Equal(t, pathtree.List("b1", "b2"), seq[1])
	assert.Equal(t, []string{"a", "b1", "b2"}, pathtree.Flatten(expanded))
}

func TestNewMapping(t *testing.T) {
	_, err := pathtree.NewMapping(
		pathtree.Entry[string]{Key: "a", Value: pathtree.Of("1")},
		pathtree.Entry[string]{Key: "a", Value: pathtree.Of("2")},
	)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFromValue(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		n, err := pathtree.FromValue("a.txt")
		require.NoError(t, err)
		assert.Equal(t, pathtree.Of("a.txt"), n)
	})

	t.Run("nested", func(t *testing.T) {
		n, err := pathtree.FromValue([]any{
			"a.txt",
			map[string]any{"z": "z.txt", "b": []any{"b1.txt", "b2.txt"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "b1.txt", "b2.txt", "z.txt"}, pathtree.Flatten(n))
	})

	t.Run("rejects_numbers", func(t *testing.T) {
		_, err := pathtree.FromValue([]any{"a", int64(3)})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("nil", func(t *testing.T) {
		n, err := pathtree.FromValue(nil)
		assert.NoError(t, err)
		assert.Nil(t, n)
	})
}

func TestFromYAML(t *testing.T) {
	src := `
zeta: z.txt
alpha:
  - a1.txt
  - a2.txt
`
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	n, err := pathtree.FromYAML(&doc)
	require.NoError(t, err)

	m, ok := n.(pathtree.Mapping[string])
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha"}, m.Keys())
	assert.Equal(t, []string{"z.txt", "a1.txt", "a2.txt"}, pathtree.Flatten(n))
}

func TestEncoding(t *testing.T) {
	tree := sampleTree(t)

	t.Run("json_keeps_key_order", func(t *testing.T) {
		data, err := json.Marshal(tree)
		require.NoError(t, err)
		assert.Equal(t, `["first.txt",{"tables":["a.csv","b.csv"],"log":"run.log"}]`, string(data))
	})

	t.Run("yaml_keeps_key_order", func(t *testing.T) {
		data, err := yaml.Marshal(tree)
		require.NoError(t, err)
		out := string(data)
		assert.Less(t, strings.Index(out, "tables"), strings.Index(out, "log"))
		assert.Contains(t, out, "- first.txt")
		assert.Contains(t, out, "a.csv")
	})
}
