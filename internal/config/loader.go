package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Loader applies environment variable overrides onto a Config, using the
// `env` struct tag when present and an auto-generated CTRLORACLE_ prefixed
// name otherwise. Adapted from the teacher's reflection-based env loader.
type Loader struct {
	envPrefix string
}

// NewLoader creates a Loader using the CTRLORACLE_ environment prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "CTRLORACLE_"}
}

// LoadFromEnvironment walks cfg's fields and applies any matching
// environment variables in place.
func (l *Loader) LoadFromEnvironment(cfg *Config) error {
	return l.applyEnvOverrides(reflect.ValueOf(cfg).Elem(), "")
}

func (l *Loader) applyEnvOverrides(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envName := fieldType.Tag.Get("env")
		if envName == "" {
			name := strings.ToUpper(fieldType.Name)
			if prefix != "" {
				envName = l.envPrefix + prefix + "_" + name
			} else {
				envName = l.envPrefix + name
			}
		}

		switch field.Kind() {
		case reflect.Struct:
			newPrefix := strings.ToUpper(fieldType.Name)
			if prefix != "" {
				newPrefix = prefix + "_" + newPrefix
			}
			if err := l.applyEnvOverrides(field, newPrefix); err != nil {
				return err
			}

		case reflect.String:
			if value := os.Getenv(envName); value != "" {
				field.SetString(value)
			}

		case reflect.Bool:
			if value := os.Getenv(envName); value != "" {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("parsing bool from %s: %w", envName, err)
				}
				field.SetBool(b)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				if value := os.Getenv(envName); value != "" {
					parts := strings.Split(value, ",")
					field.Set(reflect.ValueOf(parts))
				}
			}
		}
	}

	return nil
}
