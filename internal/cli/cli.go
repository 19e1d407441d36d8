package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/uteseqgo/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("uteseqgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
uteseqgo - Generates an ultra-short echo time radial acquisition with
double half-sinc excitation, ready for a pulseq interpreter.

Usage:
  uteseqgo [options] [PROTOCOL_PATH]

Arguments:
  PROTOCOL_PATH
    Path to a .hcl protocol file. Omit it to use the built-in protocol.

Options:
`)
		flagSet.PrintDefaults()
	}

	protocolFlag := flagSet.String("protocol", "", "Path to the protocol file.")
	pFlag := flagSet.String("p", "", "Path to the protocol file (shorthand).")
	outFlag := flagSet.String("out", ".", "Directory for exported files.")
	writeSeqFlag := flagSet.Bool("write-seq", false, "Export the assembled sequence as a .seq file.")
	writeTrajFlag := flagSet.Bool("write-traj", false, "Export the ADC-sampled k-space trajectory (requires -write-seq).")
	seqNameFlag := flagSet.String("seq-name", "double_half_pulse", "Base name for exported files and the sequence Name definition.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *protocolFlag != "" {
		path = *protocolFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Protocol path determined.", "path", path)

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
		ProtocolPath: path,
		OutDir:       *outFlag,
		SeqName:      *seqNameFlag,
		WriteSeq:     *writeSeqFlag,
		WriteTraj:    *writeTrajFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
