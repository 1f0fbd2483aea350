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
	verbose bool
	image   string
	dryRun  bool
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Recompute the import stub counts of a linked PSP module, in place.").UsageWriter(os.Stdout)
	app.Version(version.Print("prxfixup"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").Envar("PSPTOOLS_VERBOSE").BoolVar(&cfg.verbose)
	app.Flag("dry-run", "Print the stub table with the recomputed counts instead of writing the image.").Short('n').BoolVar(&cfg.dryRun)
	app.Arg("image", "The linked ELF image to fix.").Required().StringVar(&cfg.image)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	ctx := toolctx.WithLogger(context.Background(), logger)
	ctx = toolctx.WithOutput(ctx, os.Stdout)

	if cfg.dryRun {
		os.Exit(checkError(printStubs(ctx, cfg.image)))
	}
	os.Exit(checkError(fixImports(ctx, cfg.image)))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	return 1
}
