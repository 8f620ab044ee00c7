// Package config loads drill's settings from defaults, an optional YAML
// file, DRILL_* environment variables and command-line flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/abhisek/drill/internal/drill"
	"github.com/abhisek/drill/internal/search"
	"github.com/abhisek/drill/internal/spacedrep"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: DRILL_REVIEW__MAX_ATTEMPTS sets review.max_attempts.
const EnvPrefix = "DRILL_"

// Config holds all drill configuration.
type Config struct {
	// DB is the SQLite database path. Empty means the platform default.
	DB string `koanf:"db"`

	// Owner scopes every question and tag.
	Owner string `koanf:"owner" validate:"required"`

	Scheduler SchedulerConfig `koanf:"scheduler"`
	Review    ReviewConfig    `koanf:"review"`
	Index     IndexConfig     `koanf:"index"`
	Log       LogConfig       `koanf:"log"`
	Import    ImportConfig    `koanf:"import"`
}

// SchedulerConfig tunes interval growth.
type SchedulerConfig struct {
	EasyBonus        float64 `koanf:"easy_bonus" validate:"gt=0"`
	IntervalModifier float64 `koanf:"interval_modifier" validate:"gt=0"`
}

// Params converts the settings into scheduler parameters.
func (c SchedulerConfig) Params() spacedrep.Params {
	return spacedrep.Params{EasyBonus: c.EasyBonus, IntervalModifier: c.IntervalModifier}
}

// ReviewConfig controls how answers are persisted.
type ReviewConfig struct {
	// MaxAttempts bounds retries when a concurrent edit wins the save.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1,max=20"`
}

// IndexConfig controls the full-text search index.
type IndexConfig struct {
	Enabled   bool `koanf:"enabled"`
	QueueSize int  `koanf:"queue_size" validate:"min=1"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// ImportConfig controls deck imports.
type ImportConfig struct {
	// ReposDir holds checkouts of git deck sources.
	ReposDir string `koanf:"repos_dir"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	params := spacedrep.DefaultParams()
	return Config{
		Owner: defaultOwner(),
		Scheduler: SchedulerConfig{
			EasyBonus:        params.EasyBonus,
			IntervalModifier: params.IntervalModifier,
		},
		Review: ReviewConfig{
			MaxAttempts: drill.DefaultMaxAttempts,
		},
		Index: IndexConfig{
			Enabled:   true,
			QueueSize: search.DefaultQueueSize,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Import: ImportConfig{
			ReposDir: filepath.Join(dataHome(), "drill", "repos"),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/drill/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "drill", "config.yaml")
}

// Load layers the configuration sources over Default and validates the
// result. An empty path reads DefaultPath if it exists; an explicit path
// must exist. flags may be nil; only flags set on the command line apply.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		switch {
		case err == nil:
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		changed := posflag.ProviderWithFlag(flags, ".", nil, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		})
		if err := k.Load(changed, nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func defaultOwner() string {
	for _, v := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(v); u != "" {
			return u
		}
	}
	return "default"
}

func dataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}
