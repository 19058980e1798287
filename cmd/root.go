package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stockroom-app/variantd/pkg/branch"
	"github.com/stockroom-app/variantd/pkg/persister"
	"github.com/stockroom-app/variantd/pkg/resolver"
)

const rootLong = `variantd resolves which repository variant (private, public or sandbox)
this checkout is and which optional features that variant enables.

The variant is taken from the first valid signal, in this order:

  1. the marker file (.repository-type)
  2. the REPOSITORY_TYPE environment variable
  3. the git branch: main=private, public=public, sandbox=sandbox
  4. the default, private

A marker file with unrecognised content is ignored with a warning. When no
marker file exists, the resolved variant is written to it.`

// app carries configuration and collaborators shared by all commands.
type app struct {
	v *viper.Viper
	// branches and lookupEnv are replaced in tests
	branches  func(dir string) branch.Source
	lookupEnv func(string) (string, bool)
}

func newApp() *app {
	return &app{
		v: viper.New(),
		branches: func(dir string) branch.Source {
			return branch.Git{Dir: dir}
		},
		lookupEnv: os.LookupEnv,
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the variantd command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "variantd",
		Short:         "Repository variant resolution and feature gating",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (default is <dir>/.variantd.yaml)")
	f.StringP("dir", "d", ".", "repository root")
	f.String("marker-file", resolver.DefaultMarkerFile, "marker file, relative to the repository root")
	f.String("asset-file", "public/repository-type.js", "generated browser asset, relative to the repository root")
	f.String("version-file", "public/version.json", "generated version manifest, relative to the repository root")
	f.String("env-var", resolver.DefaultEnvVar, "environment variable consulted after the marker file")
	f.String("environment", "development", "deployment environment recorded in the version info")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("log-format", "text", "log format (text or json)")

	rootCmd.AddCommand(
		newSetVariantCmd(a),
		newDetectVariantCmd(a),
		newFeaturesCmd(a),
		newVersionCmd(a),
		newStartCmd(a),
	)
	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("VARIANTD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(".variantd")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(a.v.GetString("dir"))
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return a.initLogging(cmd)
}

func (a *app) initLogging(cmd *cobra.Command) error {
	level, err := log.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(cmd.ErrOrStderr())
	switch a.v.GetString("log-format") {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", a.v.GetString("log-format"))
	}
	return nil
}

func (a *app) dir() string {
	return a.v.GetString("dir")
}

// path resolves a configured path against the repository root.
func (a *app) path(key string) string {
	p := a.v.GetString(key)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir(), p)
}

func (a *app) resolver() *resolver.Resolver {
	return &resolver.Resolver{
		MarkerPath: a.path("marker-file"),
		EnvVar:     a.v.GetString("env-var"),
		Branches:   a.branches(a.dir()),
		LookupEnv:  a.lookupEnv,
		Logger:     log.StandardLogger(),
	}
}

func (a *app) persister() *persister.Persister {
	return &persister.Persister{
		MarkerPath:  a.path("marker-file"),
		AssetPath:   a.path("asset-file"),
		VersionPath: a.path("version-file"),
	}
}
