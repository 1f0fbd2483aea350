package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/pspdev/psptools/pkg/prx"
	"github.com/pspdev/psptools/pkg/toolctx"
)

func fixImports(ctx context.Context, path string) error {
	_, err := prx.NewFixer(toolctx.Fs(ctx), toolctx.Logger(ctx)).Fix(path)
	return err
}

func printStubs(ctx context.Context, path string) error {
	table, counts, err := prx.NewFixer(toolctx.Fs(ctx), toolctx.Logger(ctx)).Plan(path)
	if err != nil {
		return err
	}
	out := toolctx.Output(ctx)
	if table == nil {
		fmt.Fprintln(out, "no import stubs")
		return nil
	}

	tw := tablewriter.NewWriter(out)
	tw.SetHeader([]string{"#", "Name", "Flags", "NID table", "Stub table", "Stubs", "Fixed"})
	for i, e := range table.Entries {
		tw.Append([]string{
			strconv.Itoa(i),
			fmt.Sprintf("%#08x", e.Name),
			fmt.Sprintf("%#04x", e.Flags),
			fmt.Sprintf("%#08x", e.NIDTable),
			fmt.Sprintf("%#08x", e.StubTable),
			strconv.Itoa(int(e.StubCount)),
			strconv.Itoa(int(counts[i])),
		})
	}
	tw.Render()
	return nil
}
