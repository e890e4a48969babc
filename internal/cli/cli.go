package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/sagegrid/internal/app"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sagegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
SageGrid - Compiles SageMaker training pipelines into workflow archives.

Usage:
  sagegrid [options] PIPELINE...

Arguments:
  PIPELINE
    Name of a compiled-in pipeline, or "all". Use -list to see them.

Options:
`)
		flagSet.PrintDefaults()
	}

	roleARNFlag := flagSet.String("role-arn", "", "Override the role_arn default recorded in the archive.")
	bucketFlag := flagSet.String("bucket-name", "", "Override the bucket_name default recorded in the archive.")
	outDirFlag := flagSet.String("out-dir", ".", "Directory the archives are written to.")
	outputFlag := flagSet.String("o", "", "Explicit archive path. Only valid with a single pipeline.")
	componentsFlag := flagSet.String("components", "", "Directory of extra component manifests (HCL or KFP YAML).")
	listFlag := flagSet.Bool("list", false, "List the available pipelines and exit.")
	strictFlag := flagSet.Bool("strict", false, "Fail compilation when wiring checks report findings.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	pipelines := flagSet.Args()
	if len(pipelines) == 0 && !*listFlag {
		slog.Debug("No pipeline selected, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	// Only flags given on the command line override recorded defaults, so
	// an explicit empty value is still an override.
	defaults := make(map[string]string)
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "role-arn":
			defaults[pipeline.ParamRoleARN] = *roleARNFlag
		case "bucket-name":
			defaults[pipeline.ParamBucketName] = *bucketFlag
		}
	})

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Pipelines:      pipelines,
		Defaults:       defaults,
		OutDir:         *outDirFlag,
		Output:         *outputFlag,
		ComponentsPath: *componentsFlag,
		List:           *listFlag,
		Strict:         *strictFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
