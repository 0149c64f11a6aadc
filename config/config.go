// Package config loads amalgam.toml and merges it with command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "amalgam.toml"

const (
	DefaultRoot       = "."
	DefaultOutputDir  = "."
	DefaultOutputName = "amalgamation"
)

// Config describes one amalgamation run.
type Config struct {
	Root             string   `toml:"root"`
	HeaderExtensions []string `toml:"header_extensions"`
	SourceExtensions []string `toml:"source_extensions"`
	SystemHeaders    []string `toml:"system_headers"`
	SystemHeaderFile string   `toml:"system_header_file"`
	Output           Output   `toml:"output"`
}

// Output names where the merged header and source are written.
type Output struct {
	Dir  string `toml:"dir"`
	Name string `toml:"name"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Root:             DefaultRoot,
		HeaderExtensions: []string{"h"},
		SourceExtensions: []string{"c"},
		Output: Output{
			Dir:  DefaultOutputDir,
			Name: DefaultOutputName,
		},
	}
}

// HeaderPath is the merged header's destination.
func (c Config) HeaderPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Name+".h")
}

// SourcePath is the merged source's destination.
func (c Config) SourcePath() string {
	return filepath.Join(c.Output.Dir, c.Output.Name+".c")
}

// HeaderFileName is how the merged source includes the merged header.
func (c Config) HeaderFileName() string {
	return c.Output.Name + ".h"
}

// Load reads path on top of Default. Keys the schema does not know are
// rejected. Relative paths inside the file are resolved against the file's
// directory.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	cfg.Root = resolve(base, cfg.Root)
	cfg.Output.Dir = resolve(base, cfg.Output.Dir)
	if cfg.SystemHeaderFile != "" {
		cfg.SystemHeaderFile = resolve(base, cfg.SystemHeaderFile)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Find loads explicit when set. Otherwise it loads FileName from dir if one
// exists, and falls back to Default.
func Find(explicit, dir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to stat %s: %w", candidate, err)
	}
	return Load(candidate)
}

// Validate checks that c describes a runnable amalgamation.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root must not be empty")
	}
	if len(c.HeaderExtensions) == 0 {
		return errors.New("header_extensions must not be empty")
	}
	if len(c.SourceExtensions) == 0 {
		return errors.New("source_extensions must not be empty")
	}
	if strings.TrimSpace(c.Output.Name) == "" {
		return errors.New("output.name must not be empty")
	}
	if strings.ContainsAny(c.Output.Name, `/\`) {
		return fmt.Errorf("output.name %q must not contain a path separator", c.Output.Name)
	}
	for _, header := range c.HeaderExtensions {
		for _, source := range c.SourceExtensions {
			if strings.TrimPrefix(header, ".") == strings.TrimPrefix(source, ".") {
				return fmt.Errorf("extension %q is listed as both header and source", header)
			}
		}
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
