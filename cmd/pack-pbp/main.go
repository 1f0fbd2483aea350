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

	"github.com/pspdev/psptools/pkg/pbp"
	"github.com/pspdev/psptools/pkg/toolctx"
)

var cfg struct {
	verbose bool
	output  string
	inputs  [pbp.SlotCount]string
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

var argHelp = [pbp.SlotCount]string{
	"The PARAM.SFO metadata descriptor.",
	"The XMB icon (144x80 PNG).",
	"The animated XMB icon (PMF).",
	"The XMB overlay image (PNG).",
	"The XMB background image (480x272 PNG).",
	"The XMB background sound (AT3).",
	"The executable module.",
	"The PSAR archive.",
}

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), fmt.Sprintf("Pack resources into a PBP container. Pass %s for any missing resource.", pbp.Absent)).UsageWriter(os.Stdout)
	app.Version(version.Print("pack-pbp"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").Envar("PSPTOOLS_VERBOSE").BoolVar(&cfg.verbose)
	app.Arg("output", "The container to write.").Required().StringVar(&cfg.output)
	for _, slot := range pbp.Slots() {
		app.Arg(slot.String(), argHelp[slot]).Required().StringVar(&cfg.inputs[slot])
	}

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	ctx := toolctx.WithLogger(context.Background(), logger)
	ctx = toolctx.WithOutput(ctx, os.Stdout)

	os.Exit(checkError(pack(ctx, cfg.output, cfg.inputs)))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	return 1
}

func pack(ctx context.Context, output string, args [pbp.SlotCount]string) error {
	_, err := pbp.NewPacker(toolctx.Fs(ctx), toolctx.Logger(ctx)).Pack(output, pbp.ParseInputs(args))
	if err != nil {
		return err
	}
	fmt.Fprintf(toolctx.Output(ctx), "Saved to %s\n", output)
	return nil
}
