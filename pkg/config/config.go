package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dfm/yawms/pkg/errors"
	"github.com/dfm/yawms/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config
const EnvPrefix = "YAWMS_"

// Config is the application configuration
type Config struct {
	Workflow WorkflowConfig `koanf:"workflow"`
	Output   OutputConfig   `koanf:"output"`
	Log      LogConfig      `koanf:"log"`
}

// WorkflowConfig controls how workflow files are found
type WorkflowConfig struct {
	// Files are the candidate workflow file names, tried in order
	Files []string `koanf:"files"`
}

// OutputConfig controls rendering of command output
type OutputConfig struct {
	Format  string `koanf:"format"`
	NoColor bool   `koanf:"no_color"`
}

// LogConfig controls logging
type LogConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// Options select the sources Load reads
type Options struct {
	// UserFile overrides the user config path; empty uses UserConfigPath
	UserFile string
	// Overrides are dotted keys applied last, typically from flags
	Overrides map[string]interface{}
}

// Load builds the configuration from defaults, the user file, the
// environment and overrides
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Load user config if it exists
	userFile := opts.UserFile
	if userFile == "" {
		userFile = UserConfigPath()
	}
	if _, err := os.Stat(userFile); err == nil {
		if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", userFile).
				WithDetail("path", userFile)
		}
		logger.Debug().Str("path", userFile).Msg("Loaded user config")
	}

	// 3. Load env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Apply overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if len(cfg.Workflow.Files) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "workflow.files must name at least one file")
	}

	return &cfg, nil
}

// envKey maps YAWMS_OUTPUT_NO_COLOR to output.no_color: the first underscore
// separates the section from the key
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// UserConfigPath returns the user config file location
// It respects XDG_CONFIG_HOME if set, otherwise uses the platform config dir
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "yawms", "config.toml")
}

// FindWorkflowFile returns the first candidate workflow file present in dir
func (c *Config) FindWorkflowFile(dir string) (string, error) {
	for _, name := range c.Workflow.Files {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.Newf(errors.ErrConfigLoad, "no workflow file found in %s (looked for %s)",
		dir, strings.Join(c.Workflow.Files, ", ")).
		WithDetail("dir", dir)
}
