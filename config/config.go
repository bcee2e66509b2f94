package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FileNames are the config file names searched, in order, in the config directory.
var FileNames = []string{"focus.toml", "focus.yml", "focus.yaml"}

// envPrefix prefixes environment overrides of the form FOCUS_<SECTION>_<KEY>.
const envPrefix = "FOCUS_"

// knownSections are the top-level keys that may be overridden from the environment.
var knownSections = map[string]bool{
	"reminder": true,
	"presence": true,
	"sitting":  true,
	"sessions": true,
	"process":  true,
	"notify":   true,
	"logging":  true,
}

// FindConfigFile returns the first config file present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.ConfigNotFound(filepath.Join(dir, FileNames[0]))
}

// LoadDefault loads the configuration from the standard config directory.
// A missing file is not an error: the built-in defaults (plus environment
// overrides) are returned.
func LoadDefault() (*Config, string, error) {
	path, err := FindConfigFile(paths.ConfigDir())
	if err != nil {
		cfg, err := fromRaw(map[string]interface{}{})
		return cfg, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Load reads and parses a configuration file. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatOf(path))
	if err != nil {
		if fe, ok := err.(*errors.FocusError); ok {
			return nil, fe.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// FormatOf returns the config format implied by a file name.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// LoadFromBytes parses a configuration document in the given format,
// validates it against the schema, layers it over the defaults and applies
// environment overrides.
func LoadFromBytes(data []byte, format string) (*Config, error) {
	raw := make(map[string]interface{})
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported format %q", format))
	}
	if raw == nil {
		// An empty YAML document decodes to a nil map.
		raw = make(map[string]interface{})
	}

	v, err := schemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build config schema")
	}
	if err := v.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "config does not match schema")
	}

	return fromRaw(raw)
}

// fromRaw decodes a raw document over the defaults, applies env overrides
// and runs semantic validation.
func fromRaw(raw map[string]interface{}) (*Config, error) {
	applyEnvOverrides(raw, os.Environ())

	cfg := Default()
	if err := decode(raw, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode uses mapstructure to layer a generic map onto cfg. Keys absent from
// raw keep the values already in cfg.
func decode(raw map[string]interface{}, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		// Slices from the file replace the defaults instead of merging by index.
		ZeroFields: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(raw)
}

// applyEnvOverrides folds FOCUS_<SECTION>_<KEY>=value variables into raw.
// Values stay strings; the weakly typed decoder converts them.
func applyEnvOverrides(raw map[string]interface{}, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimPrefix(kv, envPrefix), "=")
		if !ok {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(name), "_")
		if !ok || !knownSections[section] || key == "" {
			continue
		}
		sec, ok := raw[section].(map[string]interface{})
		if !ok {
			sec = make(map[string]interface{})
			raw[section] = sec
		}
		sec[key] = value
	}
}

// Marshal renders cfg in the given format with durations as strings, so the
// output can be loaded back.
func Marshal(cfg *Config, format string) ([]byte, error) {
	doc := toDocument(reflect.ValueOf(*cfg))
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported format %q", format))
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

func toDocument(v reflect.Value) interface{} {
	switch {
	case v.Type() == durationType:
		return time.Duration(v.Int()).String()
	case v.Kind() == reflect.Struct:
		out := make(map[string]interface{}, v.NumField())
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			name := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			out[name] = toDocument(v.Field(i))
		}
		return out
	default:
		return v.Interface()
	}
}
