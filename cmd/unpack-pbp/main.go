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

var cfg struct {
	verbose   bool
	container string
	output    string
	list      bool
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Extract or list the segments of a PBP container.").UsageWriter(os.Stdout)
	app.Version(version.Print("unpack-pbp"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").Envar("PSPTOOLS_VERBOSE").BoolVar(&cfg.verbose)
	app.Flag("output", "Directory to extract the segments into.").Short('o').Default(".").StringVar(&cfg.output)
	app.Flag("list", "List the segments instead of extracting them.").Short('l').BoolVar(&cfg.list)
	app.Arg("container", "The PBP container to read.").Required().StringVar(&cfg.container)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	ctx := toolctx.WithLogger(context.Background(), logger)
	ctx = toolctx.WithOutput(ctx, os.Stdout)

	if cfg.list {
		os.Exit(checkError(list(ctx, cfg.container)))
	}
	os.Exit(checkError(unpack(ctx, cfg.container, cfg.output)))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	return 1
}
