package main

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspdev/psptools/pkg/sfo"
	"github.com/pspdev/psptools/pkg/test"
	"github.com/pspdev/psptools/pkg/toolctx"
)

func TestMksfo(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sfo.yaml", []byte("title: From Config\nints:\n  REGION: 1\n"), 0o644))
	ctx := toolctx.WithFs(toolctx.WithLogger(context.Background(), test.NewTestingLogger(t)), fs)

	err := mksfo(ctx, mksfoParams{
		title:   "Hello",
		output:  "PARAM.SFO",
		config:  "sfo.yaml",
		strings: map[string]string{"DISC_ID": "HOME00001"},
		dwords:  map[string]string{"PARENTAL_LEVEL": "0x5"},
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "PARAM.SFO")
	require.NoError(t, err)
	f, err := sfo.Decode(data)
	require.NoError(t, err)

	for key, want := range map[string]sfo.Value{
		"TITLE":          {Kind: sfo.KindString, Str: "From Config", Reserved: 128},
		"DISC_ID":        {Kind: sfo.KindString, Str: "HOME00001", Reserved: 16},
		"PARENTAL_LEVEL": {Kind: sfo.KindInt, Int: 5, Reserved: 4},
		"REGION":         {Kind: sfo.KindInt, Int: 1, Reserved: 4},
		"BOOTABLE":       {Kind: sfo.KindInt, Int: 1, Reserved: 4},
	} {
		got, ok := f.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestMksfoErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := toolctx.WithFs(toolctx.WithLogger(context.Background(), test.NewTestingLogger(t)), fs)

	err := mksfo(ctx, mksfoParams{title: "t", output: "out", dwords: map[string]string{"REGION": "lots"}})
	assert.ErrorContains(t, err, "REGION")

	err = mksfo(ctx, mksfoParams{title: "t", output: "out", strings: map[string]string{"CATEGORY": "TOOLONG"}})
	assert.ErrorIs(t, err, sfo.ErrValueTooLong)

	err = mksfo(ctx, mksfoParams{title: "t", output: "out", config: "nope.yaml"})
	assert.ErrorContains(t, err, "nope.yaml")

	exists, err := afero.Exists(fs, "out")
	require.NoError(t, err)
	assert.False(t, exists)
}
