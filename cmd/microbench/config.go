package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/violenttestpen/microbench"
)

type commandSpec struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
}

type config struct {
	Warmup   int           `yaml:"warmup"`
	Runs     int           `yaml:"runs"`
	Shell    string        `yaml:"shell"`
	NoShell  bool          `yaml:"no_shell"`
	Setup    string        `yaml:"setup"`
	Valid    bool          `yaml:"valid"`
	NoColor  bool          `yaml:"no_color"`
	Report   string        `yaml:"report"`
	JSON     bool          `yaml:"json"`
	Verbose  bool          `yaml:"verbose"`
	Commands []commandSpec `yaml:"commands"`
}

func defaultConfig() config {
	return config{
		Warmup: microbench.DefaultWarmup,
		Runs:   microbench.DefaultRepeat,
		Shell:  defaultShell(),
		Report: "bench/microbench.txt",
	}
}

// loadConfig overlays the YAML file at path onto cfg.
func loadConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config %s", path)
	}
	return nil
}

// bindFlags registers the command line flags, writing into flagCfg.
func bindFlags(fs *pflag.FlagSet, flagCfg *config, configPath *string) {
	def := defaultConfig()
	fs.StringVarP(configPath, "config", "c", "", "YAML file with options and named commands")
	fs.IntVarP(&flagCfg.Warmup, "warmup", "w", def.Warmup, "Number of warmup runs")
	fs.IntVarP(&flagCfg.Runs, "runs", "r", def.Runs, "Number of measured runs")
	fs.StringVarP(&flagCfg.Shell, "shell", "S", def.Shell, "The intermediate shell to run benchmarks in")
	fs.BoolVarP(&flagCfg.NoShell, "no-shell", "N", false, "Run benchmarks without an intermediate shell")
	fs.StringVar(&flagCfg.Setup, "setup", "", "Command to run before all benchmarks")
	fs.BoolVar(&flagCfg.Valid, "valid", false, "Mark benchmarks whose commands printed nothing as invalid")
	fs.BoolVar(&flagCfg.NoColor, "no-color", false, "Disable coloured output")
	fs.StringVar(&flagCfg.Report, "report", def.Report, "Path of the text report")
	fs.BoolVar(&flagCfg.JSON, "json", false, "Also print results as JSON")
	fs.BoolVarP(&flagCfg.Verbose, "verbose", "v", false, "Log per-benchmark CPU usage")
}

// mergeFlags copies the flags the user actually set over cfg.
func mergeFlags(fs *pflag.FlagSet, flagCfg config, cfg *config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "warmup":
			cfg.Warmup = flagCfg.Warmup
		case "runs":
			cfg.Runs = flagCfg.Runs
		case "shell":
			cfg.Shell = flagCfg.Shell
		case "no-shell":
			cfg.NoShell = flagCfg.NoShell
		case "setup":
			cfg.Setup = flagCfg.Setup
		case "valid":
			cfg.Valid = flagCfg.Valid
		case "no-color":
			cfg.NoColor = flagCfg.NoColor
		case "report":
			cfg.Report = flagCfg.Report
		case "json":
			cfg.JSON = flagCfg.JSON
		case "verbose":
			cfg.Verbose = flagCfg.Verbose
		}
	})
}
