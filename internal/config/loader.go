package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds Tables by layering defaults, an optional YAML file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if path or IPMS_CONFIG is set
//  3. env (prefix IPMS_)
func Load(path string) (*Tables, error) {
	base := Default()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("IPMS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// IPMS_NICE_CLASS_MAX -> nice_class_max etc. Underscores are preserved
	// to match the koanf tags on Tables.
	envProvider := env.Provider("IPMS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ipms_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(t *Tables) error {
	if len(t.Countries) == 0 {
		return errors.New("countries table must not be empty")
	}
	if t.NiceClassMin < 1 || t.NiceClassMax < t.NiceClassMin {
		return errors.New("nice class bounds are inverted")
	}
	if t.MinYear <= 0 || t.MaxYear < t.MinYear {
		return errors.New("year bounds are inverted")
	}
	sum := t.Weights.Completeness + t.Weights.Accuracy + t.Weights.Consistency
	if sum < 0.999 || sum > 1.001 {
		return errors.New("score weights must sum to 1")
	}
	return nil
}
