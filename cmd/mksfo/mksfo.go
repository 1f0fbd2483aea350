package main

import (
	"context"
	"strconv"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pspdev/psptools/pkg/fsutil"
	"github.com/pspdev/psptools/pkg/sfo"
	"github.com/pspdev/psptools/pkg/toolctx"
)

type mksfoParams struct {
	title   string
	output  string
	config  string
	strings map[string]string
	dwords  map[string]string
}

// mksfo builds the descriptor from the defaults, then the config file, then
// the command line values, later ones winning.
func mksfo(ctx context.Context, params mksfoParams) error {
	fs := toolctx.Fs(ctx)
	f := sfo.New(params.title)

	if params.config != "" {
		cfg, err := sfo.LoadConfig(fs, params.config)
		if err != nil {
			return err
		}
		cfg.Apply(f)
	}
	for k, v := range params.strings {
		f.SetString(k, v)
	}
	for k, v := range params.dwords {
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", k)
		}
		f.SetInt(k, uint32(n))
	}

	data, err := f.Encode()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFile(fs, params.output, data); err != nil {
		return err
	}
	level.Debug(toolctx.Logger(ctx)).Log("msg", "descriptor written", "path", params.output, "keys", len(f.Keys()))
	return nil
}
