package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

// SettingsKey is the key of the server settings in package.json and in client
// settings.
const SettingsKey = "luposLanguageServer"

// PluginName is the tsconfig.json plugin entry carrying server settings.
const PluginName = "@pucelle/lupos-server"

// Config is the server configuration.
type Config struct {
	// TemplateTags are the tag functions whose literals are templates.
	TemplateTags []string `json:"templateTags" yaml:"templateTags"`
	// Include and Exclude are doublestar globs relative to the root.
	Include     []string `json:"include" yaml:"include"`
	Exclude     []string `json:"exclude" yaml:"exclude"`
	LuposModule string   `json:"luposModule" yaml:"luposModule"`
	LogLevel    string   `json:"logLevel" yaml:"logLevel"`
	Diagnostics bool     `json:"diagnostics" yaml:"diagnostics"`
}

// DefaultConfig is the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		TemplateTags: append([]string(nil), template.DefaultTags...),
		Include:      []string{"**/*.ts", "**/*.js"},
		Exclude:      []string{"**/node_modules/**", "**/*.d.ts"},
		LuposModule:  program.LuposModule,
		LogLevel:     "info",
		Diagnostics:  true,
	}
}

// LoadConfig merges defaults with the settings found under root: the
// tsconfig.json plugin entry, the package.json key, then .config/lupos.yaml.
// A broken source is skipped and reported; the rest still apply.
func LoadConfig(fsys afero.Fs, root string) (Config, error) {
	cfg := DefaultConfig()
	if root == "" {
		return cfg, ErrNoRoot
	}
	var errs error
	errs = multierr.Append(errs, mergeTSConfig(fsys, path.Join(root, "tsconfig.json"), &cfg))
	errs = multierr.Append(errs, mergePackageJSON(fsys, path.Join(root, "package.json"), &cfg))
	for _, name := range []string{"lupos.yaml", "lupos.yml"} {
		p := path.Join(root, ".config", name)
		ok, err := mergeYAML(fsys, p, &cfg)
		errs = multierr.Append(errs, err)
		if ok {
			break
		}
	}
	return cfg, errs
}

// readJSONC returns nil data when the file does not exist.
func readJSONC(fsys afero.Fs, p string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: p, Err: err}
	}
	return jsonc.ToJSON(data), nil
}

func mergeTSConfig(fsys afero.Fs, p string, cfg *Config) error {
	data, err := readJSONC(fsys, p)
	if data == nil {
		return err
	}
	var tsconfig struct {
		CompilerOptions struct {
			Plugins []json.RawMessage `json:"plugins"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(data, &tsconfig); err != nil {
		return &ConfigError{Path: p, Err: err}
	}
	for _, raw := range tsconfig.CompilerOptions.Plugins {
		var plugin struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &plugin); err != nil || plugin.Name != PluginName {
			continue
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return &ConfigError{Path: p, Err: err}
		}
	}
	return nil
}

func mergePackageJSON(fsys afero.Fs, p string, cfg *Config) error {
	data, err := readJSONC(fsys, p)
	if data == nil {
		return err
	}
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return &ConfigError{Path: p, Err: err}
	}
	raw, ok := pkg[SettingsKey]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return &ConfigError{Path: p, Err: fmt.Errorf("%s: %w", SettingsKey, err)}
	}
	return nil
}

// mergeYAML reports whether the file existed.
func mergeYAML(fsys afero.Fs, p string, cfg *Config) (bool, error) {
	data, err := afero.ReadFile(fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return true, &ConfigError{Path: p, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return true, &ConfigError{Path: p, Err: err}
	}
	return true, nil
}

// WithSettings applies client settings, either the server's own object or
// one nested under SettingsKey.
func (c Config) WithSettings(settings any) (Config, error) {
	if settings == nil {
		return c, nil
	}
	if m, ok := settings.(map[string]any); ok {
		if nested, ok := m[SettingsKey]; ok {
			settings = nested
		}
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return c, fmt.Errorf("failed to marshal settings: %w", err)
	}
	next := c.clone()
	if err := json.Unmarshal(data, &next); err != nil {
		return c, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return next, nil
}

func (c Config) clone() Config {
	c.TemplateTags = append([]string(nil), c.TemplateTags...)
	c.Include = append([]string(nil), c.Include...)
	c.Exclude = append([]string(nil), c.Exclude...)
	return c
}
