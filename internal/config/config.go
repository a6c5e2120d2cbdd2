// Package config loads gologo.yaml: logging, rendering and server settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "gologo.yaml"

type Config struct {
	Log    Log    `yaml:"log"`
	Render Render `yaml:"render"`
	Assets Assets `yaml:"assets"`
	Serve  Serve  `yaml:"serve"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Human bool   `yaml:"human"`
}

type Render struct {
	Multiplier   int    `yaml:"multiplier" validate:"min=1,max=10000"`
	Interpolator string `yaml:"interpolator" validate:"oneof=nearest approx-bilinear bilinear catmull-rom"`
	JPEGQuality  int    `yaml:"jpeg_quality" validate:"min=1,max=100"`
}

type Assets struct {
	// Root is joined to relative layer paths that are not in the upload store.
	Root string `yaml:"root"`
}

type Serve struct {
	Addr        string `yaml:"addr" validate:"required"`
	MaxUploadMB int    `yaml:"max_upload_mb" validate:"min=1,max=1024"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "info"},
		Render: Render{Multiplier: 500, Interpolator: "approx-bilinear", JPEGQuality: 95},
		Serve:  Serve{Addr: "127.0.0.1:8080", MaxUploadMB: 10},
	}
}

// MaxUploadBytes converts the upload limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Serve.MaxUploadMB) << 20
}

// ParseError reports a config file that could not be read or decoded.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	yamlLineRegex = regexp.MustCompile(`line (\d+)`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Load reads path over the defaults. An empty path loads DefaultFile if
// it exists and the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Line: extractLine(err), Err: err}
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field constraint.
func Validate(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%s: failed %q rule (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}

func extractLine(err error) int {
	m := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return line
}
