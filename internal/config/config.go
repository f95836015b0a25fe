package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/venicegeo/ets-gpkg12/internal/catalog"
)

//go:embed schema.cue
var schemaSource string

// ErrNoContainer is returned by Resolve when neither the flags nor the
// config file name a container.
var ErrNoContainer = errors.New("no container given")

// RunConfig is the content of a run configuration file.
type RunConfig struct {
	// IUT locates the container under test.
	IUT string `yaml:"iut" json:"iut,omitempty"`

	// ICS lists the enabled conformance classes. Nil means not set.
	ICS []string `yaml:"ics" json:"ics,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level,omitempty"`
}

// SchemaError reports a config value rejected by the schema.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a run configuration file.
// Unknown keys are rejected.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates run configuration YAML.
func Parse(data []byte) (*RunConfig, error) {
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against the #RunConfig schema.
func Validate(cfg *RunConfig) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#RunConfig"))

	v := ctx.Encode(cfg)
	if err := v.Err(); err != nil {
		return schemaError(err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError reduces a CUE error to its first entry.
func schemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	return &SchemaError{
		Field:   strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
}

// Overrides are values given on the command line. They take precedence
// over the config file.
type Overrides struct {
	Container string
	ICS       string
	ICSSet    bool
	Verbose   bool
}

// Settings are the effective parameters of a run.
type Settings struct {
	Container string
	ICS       catalog.InclusionSet
	LogLevel  slog.Level
}

// Resolve merges the config file (nil when none was given) with the
// command line. When neither sets the inclusion set, every class in
// classes is enabled.
func Resolve(cfg *RunConfig, flags Overrides, classes []string) (Settings, error) {
	if cfg == nil {
		cfg = &RunConfig{}
	}
	s := Settings{Container: flags.Container, LogLevel: slog.LevelWarn}

	if s.Container == "" {
		s.Container = cfg.IUT
	}
	if s.Container == "" {
		return Settings{}, ErrNoContainer
	}

	switch {
	case flags.ICSSet:
		s.ICS = catalog.ParseInclusionSet(flags.ICS)
	case cfg.ICS != nil:
		s.ICS = catalog.InclusionSet{}
		for _, name := range cfg.ICS {
			if name = strings.TrimSpace(name); name != "" {
				s.ICS[name] = struct{}{}
			}
		}
	default:
		s.ICS = catalog.NewInclusionSet(classes...)
	}

	switch {
	case flags.Verbose:
		s.LogLevel = slog.LevelDebug
	case cfg.LogLevel != "":
		if err := s.LogLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return Settings{}, fmt.Errorf("log_level: %w", err)
		}
	}
	return s, nil
}
