// Command hysteresis renders, measures and monitors the magnetic hysteresis
// engine.
//
// Usage:
//
//	hysteresis <command> [flags]
//
// Examples:
//
//	hysteresis render in.wav out.wav --pre 12 --curve metal-b
//	hysteresis thd --pre 6 --squareness 0.8
//	hysteresis curve --squareness 0.8 --output curves.csv
//	hysteresis loop --coercitivity 0.5 --csv loop.csv
//	hysteresis play in.wav --pre 18 --mix 0.7
//	hysteresis windows
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-hysteresis/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	LogLevel string      `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Version  versionFlag `short:"v" help:"Show version information."`

	Render  renderCmd  `cmd:"" help:"Process a WAV file offline."`
	THD     thdCmd     `cmd:"" name:"thd" help:"Print a harmonic distortion table per curve."`
	Curve   curveCmd   `cmd:"" help:"Write saturation transfer curves as CSV."`
	Loop    loopCmd    `cmd:"" help:"Measure the hysteresis loop of a sine drive."`
	Play    playCmd    `cmd:"" help:"Process a WAV file and play it live."`
	Windows windowsCmd `cmd:"" help:"List the analysis windows used by thd."`
}

// env carries the process-wide collaborators into every command.
type env struct {
	out io.Writer
	log *slog.Logger
}

type versionFlag bool

// BeforeReset prints the version and exits before required arguments are
// checked.
func (v versionFlag) BeforeReset(app *kong.Kong) error {
	cli.PrintVersion(app.Stdout, version)
	app.Exit(0)
	return nil
}

func main() {
	var c CLI
	ctx := kong.Parse(&c,
		kong.Name("hysteresis"),
		kong.Description("Magnetic hysteresis and saturation processor."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	logger, err := cli.NewLogger(os.Stderr, c.LogLevel)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := ctx.Run(&env{out: os.Stdout, log: logger}); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
