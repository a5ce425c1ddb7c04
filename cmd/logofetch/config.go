package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads flag values from a flat YAML mapping keyed by flag name.
// Keys may use either dashes or underscores. Lists become comma-separated
// values.
//
//	timeout: 20s
//	allowed-origins: [https://example.com]
//	jwt_secret: ...
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := values[flag.Name]
		if !ok {
			raw, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok || raw == nil {
			return nil, nil
		}
		return configValue(raw), nil
	}), nil
}

// configValue flattens a decoded YAML value into the string form kong's
// mappers parse from the command line.
func configValue(raw any) string {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Sprint(raw)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ",")
}

// NewLogger returns a logger writing to w. Format "auto" selects JSON in
// production and text otherwise.
func NewLogger(w io.Writer, level, format string, production bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "auto", "":
		if production {
			return slog.New(slog.NewJSONHandler(w, opts)), nil
		}
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
