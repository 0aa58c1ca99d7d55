package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgomes/tersescript/terse"
	"gopkg.in/yaml.v3"
)

const (
	configEnvVar      = "TERSE_CONFIG"
	defaultConfigFile = ".terse.yaml"
)

// cliConfig is the optional YAML configuration shared by the subcommands.
// Flags override anything set here.
type cliConfig struct {
	LogLevel       string     `yaml:"log_level"`
	StepQuota      int        `yaml:"step_quota"`
	RecursionLimit int        `yaml:"recursion_limit"`
	Seed           *uint64    `yaml:"seed"`
	Jobs           int        `yaml:"jobs"`
	Exec           execConfig `yaml:"exec"`
}

type execConfig struct {
	Disabled bool          `yaml:"disabled"`
	Shell    string        `yaml:"shell"`
	Timeout  time.Duration `yaml:"timeout"`
	Dir      string        `yaml:"dir"`
}

// resolveConfigPath picks the file named by -config, then $TERSE_CONFIG,
// then .terse.yaml in the working directory. An empty result means no file.
func resolveConfigPath(flagValue string) (string, bool, error) {
	if flagValue != "" {
		return flagValue, true, nil
	}
	if env := os.Getenv(configEnvVar); env != "" {
		return env, true, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("config: stat %s: %w", defaultConfigFile, err)
	}
	return "", false, nil
}

func loadConfig(flagValue string) (*cliConfig, error) {
	path, explicit, err := resolveConfigPath(flagValue)
	if err != nil {
		return nil, err
	}
	cfg := &cliConfig{}
	if path == "" {
		return cfg, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

func (c *cliConfig) validate() error {
	var issues []string
	if c.StepQuota < 0 {
		issues = append(issues, "step_quota must be >= 0")
	}
	if c.RecursionLimit < 0 {
		issues = append(issues, "recursion_limit must be >= 0")
	}
	if c.Jobs < 0 {
		issues = append(issues, "jobs must be >= 0")
	}
	if c.Exec.Timeout < 0 {
		issues = append(issues, "exec.timeout must be >= 0")
	}
	if c.LogLevel != "" {
		if _, err := parseLogLevel(c.LogLevel); err != nil {
			issues = append(issues, err.Error())
		}
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if raw == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(w io.Writer, raw string) (*slog.Logger, error) {
	level, err := parseLogLevel(raw)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// runFlags are the execution flags shared by run and repl. Any flag given
// on the command line overrides the config file.
type runFlags struct {
	configPath     string
	logLevel       string
	stepQuota      int
	recursionLimit int
	seed           uint64
	jobs           int
	execTimeout    time.Duration
	noExec         bool
}

func (f *runFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.IntVar(&f.stepQuota, "step-quota", 0, "maximum statements and loop iterations (0 = unlimited)")
	fs.IntVar(&f.recursionLimit, "recursion-limit", 0, "maximum user function call depth (0 = default)")
	fs.Uint64Var(&f.seed, "seed", 0, "seed RAND for reproducible runs")
	fs.IntVar(&f.jobs, "jobs", 0, "scripts to run concurrently (0 = GOMAXPROCS)")
	fs.DurationVar(&f.execTimeout, "exec-timeout", 0, "timeout for each EXEC command (0 = none)")
	fs.BoolVar(&f.noExec, "no-exec", false, "disable EXEC, EXEC2 and EXEC_COMBINED")
}

func (f *runFlags) resolve(fs *flag.FlagSet) (*cliConfig, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "step-quota":
			cfg.StepQuota = f.stepQuota
		case "recursion-limit":
			cfg.RecursionLimit = f.recursionLimit
		case "seed":
			seed := f.seed
			cfg.Seed = &seed
		case "jobs":
			cfg.Jobs = f.jobs
		case "exec-timeout":
			cfg.Exec.Timeout = f.execTimeout
		case "no-exec":
			cfg.Exec.Disabled = f.noExec
		}
	})
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// engineConfig builds the interpreter config for one script. Seeded runs
// give each script its own deterministic stream.
func (c *cliConfig) engineConfig(logger *slog.Logger, stream int) terse.Config {
	cfg := terse.Config{
		StepQuota:      c.StepQuota,
		RecursionLimit: c.RecursionLimit,
		Logger:         logger,
	}
	if c.Seed != nil {
		rng := rand.New(rand.NewPCG(*c.Seed, uint64(stream)))
		cfg.Random = rng.Float64
	}
	if !c.Exec.Disabled {
		cfg.Runner = terse.OSRunner{Shell: c.Exec.Shell, Timeout: c.Exec.Timeout, Dir: c.Exec.Dir}
	}
	return cfg
}
