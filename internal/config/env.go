package config

import (
	"sort"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INKLINK_"

type envSetter func(c *Config, value string) error

func stringSetter(field func(*Config) *string) envSetter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

func boolSetter(field func(*Config) *bool) envSetter {
	return func(c *Config, value string) error {
		b, ok := parseBool(value)
		if !ok {
			return errNotBool
		}
		*field(c) = b
		return nil
	}
}

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	"INKLINK_SCHEME":             stringSetter(func(c *Config) *string { return &c.Scheme }),
	"INKLINK_EXPORT_SCHEME":      stringSetter(func(c *Config) *string { return &c.ExportScheme }),
	"INKLINK_ASK_FOR_FILE_NAME":  boolSetter(func(c *Config) *bool { return &c.AskForFileName }),
	"INKLINK_USE_ABSOLUTE_PATHS": boolSetter(func(c *Config) *bool { return &c.UseAbsolutePaths }),
	"INKLINK_IMAGE_DIRECTORY":    stringSetter(func(c *Config) *string { return &c.ImageDirectory }),
	"INKLINK_TEMPLATE_PATH":      stringSetter(func(c *Config) *string { return &c.TemplatePath }),
	"INKLINK_CREATE_COMMAND":     stringSetter(func(c *Config) *string { return &c.CreateCommand }),
	"INKLINK_OPEN_COMMAND":       stringSetter(func(c *Config) *string { return &c.OpenCommand }),
	"INKLINK_PREVIEW_ENABLED":    boolSetter(func(c *Config) *bool { return &c.Preview.Enabled }),
	"INKLINK_PREVIEW_WATCH":      boolSetter(func(c *Config) *bool { return &c.Preview.Watch }),
	"INKLINK_PREVIEW_DEBOUNCE":   stringSetter(func(c *Config) *string { return &c.Preview.Debounce }),
	"INKLINK_GENERATOR_SCRIPT":   stringSetter(func(c *Config) *string { return &c.Generator.Script }),
	"INKLINK_LOG_LEVEL":          stringSetter(func(c *Config) *string { return &c.Logging.Level }),
	"INKLINK_METRICS_ENABLED":    boolSetter(func(c *Config) *bool { return &c.Metrics.Enabled }),
	"INKLINK_METRICS_LISTEN":     stringSetter(func(c *Config) *string { return &c.Metrics.Listen }),
}

// EnvVars returns the recognized environment variables.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	for _, name := range EnvVars() {
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := envMapping[name](c, value); err != nil {
			return &ParseError{Path: "env:" + name, Message: err.Error() + ": " + value, Err: err}
		}
	}
	return nil
}

// parseBool accepts the spellings people put in environment variables.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0", "":
		return false, true
	}
	return false, false
}
