package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/pspdev/psptools/pkg/pbp"
	"github.com/pspdev/psptools/pkg/sfo"
	"github.com/pspdev/psptools/pkg/toolctx"
)

func unpack(ctx context.Context, path, dir string) error {
	written, err := pbp.Unpack(toolctx.Fs(ctx), toolctx.Logger(ctx), path, dir)
	if err != nil {
		return err
	}
	out := toolctx.Output(ctx)
	for _, w := range written {
		fmt.Fprintln(out, w)
	}
	return nil
}

func list(ctx context.Context, path string) error {
	c, err := pbp.Open(toolctx.Fs(ctx), path)
	if err != nil {
		return err
	}
	out := toolctx.Output(ctx)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Slot", "File", "Offset", "Size", "XXH64"})
	for _, slot := range pbp.Slots() {
		seg := c.Segment(slot)
		digest := "-"
		if len(seg) > 0 {
			digest = fmt.Sprintf("%016x", xxhash.Sum64(seg))
		}
		table.Append([]string{
			strconv.Itoa(int(slot)),
			slot.String(),
			fmt.Sprintf("%#x", c.Header.Offsets[slot]),
			humanize.Bytes(uint64(len(seg))),
			digest,
		})
	}
	table.Render()

	param := c.Segment(pbp.SlotParamSFO)
	if len(param) == 0 {
		return nil
	}
	desc, err := sfo.Decode(param)
	if err != nil {
		return errors.Wrap(err, pbp.SlotParamSFO.String())
	}
	fmt.Fprintln(out)
	printDescriptor(out, desc)
	return nil
}
