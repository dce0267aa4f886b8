package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/ghtools/secret"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// GHTOOLS_SERVER_TRANSPORT.
const DefaultEnvPrefix = "GHTOOLS"

// envAliases map conventional variable names onto prefixed ones. The
// prefixed name wins when both are set.
var envAliases = map[string]string{
	"LOG_LEVEL": "OBSERVE_LOG_LEVEL",
}

// Loader loads configuration. Precedence, lowest first: defaults, YAML
// file, environment. Secret references are resolved last.
type Loader struct {
	configPath string
	envFiles   []string
	envPrefix  string
	registry   *secret.Registry
}

// NewLoader creates a loader with the default prefix and the builtin
// secret providers.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: DefaultEnvPrefix,
		registry:  secret.NewBuiltinRegistry(),
	}
}

// WithConfigPath sets the YAML file to read. The file must exist.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvFiles sets dotenv files loaded before the environment overlay.
// Missing files are skipped; variables already set are not overridden.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithRegistry replaces the secret provider registry.
func (l *Loader) WithRegistry(r *secret.Registry) *Loader {
	l.registry = r
	return l
}

// Load builds, resolves and validates the configuration.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.configPath, err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix, l.envPrefix); err != nil {
		return nil, err
	}
	if err := l.resolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, rejecting unknown keys.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse: %w", err)
	}
	return nil
}

func (l *Loader) loadEnvFiles() error {
	for _, f := range l.envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func (l *Loader) resolveSecrets(ctx context.Context, cfg *Config) error {
	resolver, err := l.registry.Resolver(cfg.Secrets)
	if err != nil {
		return fmt.Errorf("config: secrets: %w", err)
	}

	fields := map[string]*string{
		"github.token":    &cfg.GitHub.Token,
		"github.base_url": &cfg.GitHub.BaseURL,
		"auth.jwt.secret": &cfg.Auth.JWT.Secret,
	}
	for i := range cfg.Auth.APIKeys {
		fields[fmt.Sprintf("auth.api_keys[%d].key", i)] = &cfg.Auth.APIKeys[i].Key
		fields[fmt.Sprintf("auth.api_keys[%d].hash", i)] = &cfg.Auth.APIKeys[i].Hash
	}
	if err := resolver.ResolveFields(ctx, fields); err != nil {
		return fmt.Errorf("config: resolve %w", err)
	}
	return nil
}

// applyEnv walks struct fields tagged with env and overrides them from
// PREFIX_SECTION_FIELD variables.
func applyEnv(v reflect.Value, root, prefix string) error {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, root, key); err != nil {
				return err
			}
			continue
		}

		value, ok := lookupEnv(key, root)
		if !ok {
			continue
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
	}
	return nil
}

func lookupEnv(key, root string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	for alias, target := range envAliases {
		if key != root+"_"+target {
			continue
		}
		if v, ok := os.LookupEnv(alias); ok {
			return v, true
		}
	}
	return "", false
}

var durationType = reflect.TypeFor[time.Duration]()

func setField(field reflect.Value, value string) error {
	value = strings.TrimSpace(value)
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(value)
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
