package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Config values are addressed by the dot-joined JSON names of a section and
// one of its fields, e.g. "schedule.interval", "loop.skipBacklog" or
// "telegram.token". A bare section name ("journal") addresses the section.

// GetByPath returns the value at path. Fields left out of config.json by
// omitempty are still addressable and return their zero value.
func GetByPath(cfg *Config, path string) (any, error) {
	v, err := lookup(cfg, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// SetByPath parses value according to the type of the field at path and
// stores it: "true"/"false" for switches, base-10 numbers for intervals,
// delays and the seed, the text itself for strings. Sections cannot be set
// as a whole.
func SetByPath(cfg *Config, path, value string) error {
	v, err := lookup(cfg, path)
	if err != nil {
		return err
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: want true or false, got %q", path, value)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || v.OverflowInt(n) {
			return fmt.Errorf("%s: want an integer, got %q", path, value)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || v.OverflowUint(n) {
			return fmt.Errorf("%s: want a non-negative integer, got %q", path, value)
		}
		v.SetUint(n)
	default:
		return fmt.Errorf("%s is a section; set one of its fields instead", path)
	}
	return nil
}

// lookup walks cfg by JSON field names and returns the settable field.
func lookup(cfg *Config, path string) (reflect.Value, error) {
	v := reflect.ValueOf(cfg).Elem()
	for _, key := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("key not found: %s", path)
		}
		field, ok := fieldByJSONName(v, key)
		if !ok {
			return reflect.Value{}, fmt.Errorf("key not found: %s", path)
		}
		v = field
	}
	return v, nil
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := range t.NumField() {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Sanitize returns a copy of the config with the bot token masked, for
// printing by `config get` and `config list`.
func Sanitize(cfg *Config) *Config {
	data, err := json.Marshal(cfg)
	if err != nil {
		return cfg
	}
	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		return cfg
	}

	if out.Telegram.Token != "" {
		out.Telegram.Token = maskString(out.Telegram.Token)
	}
	return &out
}

// maskString keeps the first and last 4 bytes of a token. Telegram tokens
// are ASCII.
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
