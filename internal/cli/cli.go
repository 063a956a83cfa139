package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Environment variables consulted for flags left unset.
const (
	EnvOutput    = "MAPSYNTH_OUTPUT"
	EnvPackage   = "MAPSYNTH_PACKAGE"
	EnvLogLevel  = "MAPSYNTH_LOG_LEVEL"
	EnvLogFormat = "MAPSYNTH_LOG_FORMAT"
	EnvStrict    = "MAPSYNTH_STRICT"
)

// Config is the parsed command line.
type Config struct {
	MappingPath  string
	Packages     []string
	OutputDir    string
	PackageName  string
	PackagePath  string
	RegistryPath string
	Strict       bool
	Check        bool
	LogLevel     string
	LogFormat    string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Flags left empty fall back to MAPSYNTH_* variables from the process
// environment, then from the file named by -env.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("mapsynth", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mapsynth - synthesizes conversion routines between object graphs.

Usage:
  mapsynth [options] MAPPING_FILE

Arguments:
  MAPPING_FILE
    Path to the YAML file listing the type pairs to map.

Options:
`)
		flagSet.PrintDefaults()
	}

	pkgFlag := flagSet.String("pkgs", "", "Comma-separated Go package patterns to load types from.")
	outFlag := flagSet.String("out", "", "Output directory for generated files. Env: "+EnvOutput+".")
	nameFlag := flagSet.String("package", "", "Name of the generated package. Env: "+EnvPackage+".")
	pathFlag := flagSet.String("package-path", "", "Import path of the generated package, if it holds mapped types.")
	registryFlag := flagSet.String("registry", "mapsynth/registry", "Import path of the runtime registry package.")
	strictFlag := flagSet.Bool("strict", false, "Report settable target members that receive no value. Env: "+EnvStrict+".")
	checkFlag := flagSet.Bool("check", false, "Validate the mapping without writing files.")
	envFlag := flagSet.String("env", ".env", "Optional file with MAPSYNTH_* defaults.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'. Env: "+EnvLogFormat+".")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Env: "+EnvLogLevel+".")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}

		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	env, err := loadEnv(*envFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := &Config{
		MappingPath:  flagSet.Arg(0),
		OutputDir:    firstNonEmpty(*outFlag, env(EnvOutput), "./mappers"),
		PackageName:  firstNonEmpty(*nameFlag, env(EnvPackage), "mappers"),
		PackagePath:  *pathFlag,
		RegistryPath: *registryFlag,
		Strict:       *strictFlag,
		Check:        *checkFlag,
		LogFormat:    strings.ToLower(firstNonEmpty(*logFormatFlag, env(EnvLogFormat), "text")),
		LogLevel:     strings.ToLower(firstNonEmpty(*logLevelFlag, env(EnvLogLevel), "info")),
	}

	if !cfg.Strict {
		if v := env(EnvStrict); v != "" {
			strict, err := strconv.ParseBool(v)
			if err != nil {
				return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid %s: %v", EnvStrict, err)}
			}

			cfg.Strict = strict
		}
	}

	for _, p := range strings.Split(*pkgFlag, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Packages = append(cfg.Packages, p)
		}
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return cfg, false, nil
}

// loadEnv returns a lookup over the process environment backed by the
// variables of file. A missing file is not an error.
func loadEnv(file string) (func(string) string, error) {
	vars := map[string]string{}

	if file != "" {
		read, err := godotenv.Read(file)
		switch {
		case err == nil:
			vars = read
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
	}

	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}

		return vars[key]
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
