package workflowfile

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/dfm/yawms/pkg/pathtree"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateRuleDef, RuleDef{})
	return v
}

// validateRuleDef requires every rule to be addressable: by name for rule
// targets or by output for path targets
func validateRuleDef(sl validator.StructLevel) {
	def := sl.Current().Interface().(RuleDef)
	if def.Name == "" && def.Output == nil {
		sl.ReportError(def.Name, "Name", "name", "name_or_output", "")
	}
}

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrConfigLoad, "unsupported workflow file %s", path).
			WithDetail("path", path)
	}
}

// Load reads and validates a workflow file
func Load(path string) (*File, error) {
	logger := logging.GetLogger("workflowfile").With().Str("path", path).Logger()

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read workflow file %s", path).
			WithDetail("path", path)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err), "invalid workflow file %s", path).
			WithDetail("path", path)
	}
	f.Path = path

	logger.Debug().
		Str("format", string(format)).
		Int("rules", len(f.Rules)).
		Msg("Workflow file loaded")

	return f, nil
}

// Parse decodes and validates workflow file content
func Parse(data []byte, format Format) (*File, error) {
	var (
		f   *File
		err error
	)
	switch format {
	case FormatTOML:
		f, err = parseTOML(data)
	case FormatYAML:
		f, err = parseYAML(data)
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported workflow format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(f); err != nil {
		return nil, describeValidation(err)
	}
	return f, nil
}

func parseTOML(data []byte) (*File, error) {
	var raw tomlFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse TOML")
	}

	f := &File{Rules: make([]RuleDef, 0, len(raw.Rule))}
	for i, r := range raw.Rule {
		def := RuleDef{Name: r.Name, Default: r.Default, Command: r.Command}
		fields := []struct {
			key string
			src any
			dst *pathtree.Node[string]
		}{
			{"output", r.Output, &def.Output},
			{"input", r.Input, &def.Input},
			{"require", r.Require, &def.Require},
		}
		for _, fd := range fields {
			tree, err := pathtree.FromValue(fd.src)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %d: invalid %s", i+1, fd.key)
			}
			*fd.dst = tree
		}
		f.Rules = append(f.Rules, def)
	}
	return f, nil
}

// yamlFile mirrors the YAML layout; tree fields stay as nodes to keep key order
type yamlFile struct {
	Rule []yamlRule `yaml:"rule"`
}

type yamlRule struct {
	Name    string    `yaml:"name"`
	Output  yaml.Node `yaml:"output"`
	Input   yaml.Node `yaml:"input"`
	Require yaml.Node `yaml:"require"`
	Default bool      `yaml:"default"`
	Command string    `yaml:"command"`
}

func parseYAML(data []byte) (*File, error) {
	var raw yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse YAML")
	}

	f := &File{Rules: make([]RuleDef, 0, len(raw.Rule))}
	for i := range raw.Rule {
		r := &raw.Rule[i]
		def := RuleDef{Name: r.Name, Default: r.Default, Command: r.Command}
		fields := []struct {
			key string
			src *yaml.Node
			dst *pathtree.Node[string]
		}{
			{"output", &r.Output, &def.Output},
			{"input", &r.Input, &def.Input},
			{"require", &r.Require, &def.Require},
		}
		for _, fd := range fields {
			if fd.src.Kind == 0 {
				continue
			}
			tree, err := pathtree.FromYAML(fd.src)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid, "rule %d: invalid %s", i+1, fd.key)
			}
			*fd.dst = tree
		}
		f.Rules = append(f.Rules, def)
	}
	return f, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(err, errors.ErrConfigValid, "workflow validation failed")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "name_or_output":
			msgs = append(msgs, fe.Namespace()+": a rule needs a name or an output")
		default:
			msgs = append(msgs, fe.Namespace()+": failed "+fe.Tag()+" check")
		}
	}
	return errors.Newf(errors.ErrConfigValid, "workflow validation failed: %s", strings.Join(msgs, "; ")).
		WithDetail("violations", msgs)
}
