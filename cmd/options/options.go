// Package options holds the flags shared by every command that reads a
// source tree, and merges them over amalgam.toml.
package options

import (
	"fmt"

	"github.com/LegacyCodeHQ/amalgam/amalgamation"
	"github.com/LegacyCodeHQ/amalgam/config"
	"github.com/LegacyCodeHQ/amalgam/internal/logging"
	"github.com/spf13/cobra"
)

// Amalgamation is the flag set for one amalgamation run.
type Amalgamation struct {
	ConfigPath       string
	Root             string
	HeaderExtensions []string
	SourceExtensions []string
	SystemHeaders    []string
	SystemHeaderFile string
	Commit           string
	OutputDir        string
	OutputName       string
}

// AddConfigFlag registers --config.
func (a *Amalgamation) AddConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.ConfigPath, "config", "", "Path to the configuration file (default: ./"+config.FileName+" if present)")
}

// AddRegistryFlags registers the flags that extend the system header registry.
func (a *Amalgamation) AddRegistryFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.SystemHeaders, "system-header", nil, "Extra system header treated as external (repeatable, comma-separated)")
	cmd.Flags().StringVar(&a.SystemHeaderFile, "system-header-file", "", "File listing extra system headers, one per line")
}

// AddTreeFlags registers the flags that select the input tree.
func (a *Amalgamation) AddTreeFlags(cmd *cobra.Command, withCommit bool) {
	cmd.Flags().StringVarP(&a.Root, "root", "r", "", "Directory to amalgamate (default: .)")
	cmd.Flags().StringSliceVar(&a.HeaderExtensions, "header-ext", nil, "Header file extensions (default: h)")
	cmd.Flags().StringSliceVar(&a.SourceExtensions, "source-ext", nil, "Source file extensions (default: c)")
	if withCommit {
		cmd.Flags().StringVarP(&a.Commit, "commit", "c", "", "Amalgamate the tree as of this git commit")
	}
}

// AddOutputFlags registers the flags that name the merged files.
func (a *Amalgamation) AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.OutputDir, "output", "o", "", "Output directory (default: .)")
	cmd.Flags().StringVarP(&a.OutputName, "name", "n", "", "Output base name; writes <name>.h and <name>.c (default: amalgamation)")
}

// Config loads the configuration file and applies every flag the user set
// on cmd.
func (a *Amalgamation) Config(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Find(a.ConfigPath, ".")
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = a.Root
	}
	if flags.Changed("header-ext") {
		cfg.HeaderExtensions = a.HeaderExtensions
	}
	if flags.Changed("source-ext") {
		cfg.SourceExtensions = a.SourceExtensions
	}
	if flags.Changed("system-header") {
		cfg.SystemHeaders = append(cfg.SystemHeaders, a.SystemHeaders...)
	}
	if flags.Changed("system-header-file") {
		cfg.SystemHeaderFile = a.SystemHeaderFile
	}
	if flags.Changed("output") {
		cfg.Output.Dir = a.OutputDir
	}
	if flags.Changed("name") {
		cfg.Output.Name = a.OutputName
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Options resolves the configuration into pipeline options carrying the
// command's logger.
func (a *Amalgamation) Options(cmd *cobra.Command) (amalgamation.Options, error) {
	cfg, err := a.Config(cmd)
	if err != nil {
		return amalgamation.Options{}, err
	}

	opts, err := amalgamation.OptionsFromConfig(cfg)
	if err != nil {
		return amalgamation.Options{}, err
	}
	opts.Commit = a.Commit
	opts.Logger = logging.FromContext(cmd.Context())
	return opts, nil
}
