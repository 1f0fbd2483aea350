package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/pspdev/psptools/pkg/toolctx"
)

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	var (
		verbose bool
		params  mksfoParams
	)
	app := kingpin.New(filepath.Base(os.Args[0]), "Create a PARAM.SFO metadata descriptor.").UsageWriter(os.Stdout)
	app.Version(version.Print("mksfo"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").Envar("PSPTOOLS_VERBOSE").BoolVar(&verbose)
	app.Flag("config", "YAML file with title, strings and ints to set. ${VAR} references are expanded.").Short('c').StringVar(&params.config)
	app.Flag("string", "Set a string value, KEY=VALUE. May be repeated.").Short('s').StringMapVar(&params.strings)
	app.Flag("dword", "Set a 32-bit value, KEY=VALUE. May be repeated.").Short('d').StringMapVar(&params.dwords)
	app.Arg("title", "The application title.").Required().StringVar(&params.title)
	app.Arg("output", "The descriptor to write.").Required().StringVar(&params.output)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	ctx := toolctx.WithLogger(context.Background(), logger)
	ctx = toolctx.WithOutput(ctx, os.Stdout)

	os.Exit(checkError(mksfo(ctx, params)))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	return 1
}
