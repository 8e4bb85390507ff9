// Package config resolves csvreport settings from flags, environment
// variables and an optional config file.
//
// Precedence, highest first: explicitly set flags, CSVREPORT_* environment
// variables, the config file, then built-in defaults. Environment names
// are the flag names upper-cased with dashes and dots turned into
// underscores, e.g. CSVREPORT_GROUP_BY or CSVREPORT_CHART_WIDTH.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "csvreport"

	// FileName is the config file base name searched for without --config
	FileName = ".csvreport"
)

// Settings is the resolved configuration for one run
type Settings struct {
	Input     string   `mapstructure:"input"`
	Filters   []string `mapstructure:"filter"`
	GroupBy   []string `mapstructure:"group-by"`
	Aggs      []string `mapstructure:"agg"`
	Out       string   `mapstructure:"out"`
	Plot      string   `mapstructure:"plot"`
	Delimiter string   `mapstructure:"delimiter"`
	Preview   bool     `mapstructure:"preview"`
	Schema    bool     `mapstructure:"schema"`
	Title     string   `mapstructure:"title"`
	Verbose   bool     `mapstructure:"verbose"`

	Chart struct {
		Width  float64 `mapstructure:"width"`
		Height float64 `mapstructure:"height"`
	} `mapstructure:"chart"`

	// ConfigFile is the config file that was read, if any
	ConfigFile string `mapstructure:"-"`
}

// Delim returns the input delimiter as a rune, or zero to use the
// per-format default.
func (s *Settings) Delim() (rune, error) {
	switch r := []rune(s.Delimiter); len(r) {
	case 0:
		return 0, nil
	case 1:
		return r[0], nil
	default:
		if s.Delimiter == `\t` {
			return '\t', nil
		}
		return 0, errors.Errorf("delimiter must be a single character, got %q", s.Delimiter)
	}
}

// SetDefaults registers the built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out", "report.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("preview", false)
	v.SetDefault("schema", false)
	v.SetDefault("verbose", false)
	v.SetDefault("chart.width", 6.4)
	v.SetDefault("chart.height", 4.8)
}

// Load resolves settings from flags, the environment and a config file.
//
// The config file is the value of the "config" flag when set, otherwise
// the first .csvreport.{yaml,toml,json} found in searchDirs. A missing
// file is not an error unless it was named explicitly.
func Load(fs afero.Fs, flags *pflag.FlagSet, searchDirs ...string) (*Settings, error) {
	v := viper.New()
	v.SetFs(fs)
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "failed to bind flags")
		}
	}

	if err := readConfigFile(v, flags, searchDirs); err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	s.ConfigFile = v.ConfigFileUsed()
	s.GroupBy = splitList(s.GroupBy)
	s.Aggs = splitList(s.Aggs)

	return &s, nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet, searchDirs []string) error {
	var explicit string
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case len(searchDirs) > 0:
		v.SetConfigName(FileName)
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	default:
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// splitList flattens comma separated entries and drops empty ones
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
