package sfo

import (
	"github.com/drone/envsubst"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pspdev/psptools/pkg/fsutil"
)

// Config describes a descriptor in YAML. ${VAR} references are expanded from
// the environment before parsing.
//
//	title: My Game
//	strings:
//	  DISC_ID: ABCD00001
//	ints:
//	  PARENTAL_LEVEL: 3
type Config struct {
	Title   string            `yaml:"title"`
	Strings map[string]string `yaml:"strings"`
	Ints    map[string]uint32 `yaml:"ints"`
}

// LoadConfig reads the YAML configuration at path.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := fsutil.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	expanded, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &cfg, nil
}

// Apply overrides values of f with the configured ones. An empty title keeps
// the current one.
func (c *Config) Apply(f *File) {
	if c.Title != "" {
		f.SetString("TITLE", c.Title)
	}
	for k, v := range c.Strings {
		f.SetString(k, v)
	}
	for k, v := range c.Ints {
		f.SetInt(k, v)
	}
}
