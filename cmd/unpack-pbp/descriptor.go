package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/pspdev/psptools/pkg/sfo"
)

func printDescriptor(w io.Writer, f *sfo.File) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "Value"})
	for _, key := range f.Keys() {
		v, _ := f.Get(key)
		switch v.Kind {
		case sfo.KindString:
			table.Append([]string{key, "string", v.Str})
		case sfo.KindInt:
			table.Append([]string{key, "int", fmt.Sprintf("%#x", v.Int)})
		}
	}
	table.Render()
}
