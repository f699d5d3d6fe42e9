package workflowfile

import (
	"github.com/dfm/yawms/pkg/pathtree"
)

// Format is the syntax of a workflow file
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// File is a parsed workflow file
type File struct {
	Path  string
	Rules []RuleDef `validate:"dive"`
}

// RuleDef is one rule of a workflow file
type RuleDef struct {
	Name    string `validate:"max=256"`
	Output  pathtree.Node[string]
	Input   pathtree.Node[string]
	Require pathtree.Node[string]
	Default bool
	Command string `validate:"max=65536"`
}

// tomlFile mirrors the TOML layout; tree fields decode into plain values
type tomlFile struct {
	Rule []tomlRule `toml:"rule"`
}

type tomlRule struct {
	Name    string `toml:"name"`
	Output  any    `toml:"output"`
	Input   any    `toml:"input"`
	Require any    `toml:"require"`
	Default bool   `toml:"default"`
	Command string `toml:"command"`
}
