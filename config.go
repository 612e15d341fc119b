package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each is also a flag name and, upper-cased with the
// APIREF_ prefix, an environment variable.
const (
	keyOutput    = "output"
	keyAll       = "all"
	keyRoot      = "root"
	keyTOC       = "toc"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyConfig    = "config"

	envPrefix      = "APIREF"
	configBaseName = ".apiref"
	defaultRoot    = "api"
)

var errLogFormat = errors.New("unsupported log format")

type options struct {
	output    string
	all       bool
	root      string
	toc       bool
	logLevel  string
	logFormat string
}

// loadOptions merges flags, environment and the optional .apiref.yaml file.
// Flags set on the command line win.
func loadOptions(flags *pflag.FlagSet) (options, error) {
	v := viper.New()
	for _, key := range []string{keyOutput, keyAll, keyRoot, keyTOC, keyLogLevel, keyLogFormat} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return options{}, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := flags.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configBaseName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return options{}, fmt.Errorf("read config: %w", err)
		}
	}

	opts := options{
		output:    v.GetString(keyOutput),
		all:       v.GetBool(keyAll),
		root:      v.GetString(keyRoot),
		toc:       v.GetBool(keyTOC),
		logLevel:  v.GetString(keyLogLevel),
		logFormat: v.GetString(keyLogFormat),
	}
	if err := opts.resolve(); err != nil {
		return options{}, err
	}
	return opts, nil
}

// resolve fills the output directory and link root. An explicit output
// directory names the link root after itself; otherwise pages land in the
// working directory and links use defaultRoot.
func (o *options) resolve() error {
	switch o.logFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w %q", errLogFormat, o.logFormat)
	}
	if o.output == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		o.output = wd
		if o.root == "" {
			o.root = defaultRoot
		}
		return nil
	}
	abs, err := filepath.Abs(strings.TrimRight(o.output, `/\`))
	if err != nil {
		return err
	}
	o.output = abs
	if o.root == "" {
		o.root = filepath.Base(abs)
	}
	return nil
}
