package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspdev/psptools/pkg/pbp"
	"github.com/pspdev/psptools/pkg/sfo"
	"github.com/pspdev/psptools/pkg/test"
	"github.com/pspdev/psptools/pkg/toolctx"
)

func packTestContainer(t *testing.T, fs afero.Fs) []byte {
	t.Helper()
	param, err := sfo.New("Unpack Test").Encode()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "PARAM.SFO", param, 0o644))
	require.NoError(t, afero.WriteFile(fs, "app.prx", []byte("executable"), 0o644))

	var in pbp.Inputs
	in[pbp.SlotParamSFO] = pbp.File("PARAM.SFO")
	in[pbp.SlotDataPSP] = pbp.File("app.prx")
	_, err = pbp.NewPacker(fs, test.NewTestingLogger(t)).Pack("EBOOT.PBP", in)
	require.NoError(t, err)
	return param
}

func testContext(t *testing.T, fs afero.Fs, out *bytes.Buffer) context.Context {
	ctx := toolctx.WithLogger(context.Background(), test.NewTestingLogger(t))
	return toolctx.WithOutput(toolctx.WithFs(ctx, fs), out)
}

func TestList(t *testing.T) {
	fs := afero.NewMemMapFs()
	packTestContainer(t, fs)
	var out bytes.Buffer

	require.NoError(t, list(testContext(t, fs, &out), "EBOOT.PBP"))
	s := out.String()
	assert.Contains(t, s, "DATA.PSP")
	assert.Contains(t, s, "Unpack Test")
	assert.Contains(t, s, "UCJS10041")
}

func TestUnpack(t *testing.T) {
	fs := afero.NewMemMapFs()
	param := packTestContainer(t, fs)
	var out bytes.Buffer

	require.NoError(t, unpack(testContext(t, fs, &out), "EBOOT.PBP", "extracted"))
	got, err := afero.ReadFile(fs, "extracted/PARAM.SFO")
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64(param), xxhash.Sum64(got))
	exe, err := afero.ReadFile(fs, "extracted/DATA.PSP")
	require.NoError(t, err)
	assert.Equal(t, "executable", string(exe))
	assert.Contains(t, out.String(), "DATA.PSP")
}

func TestListInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.pbp", bytes.Repeat([]byte("bad!"), 16), 0o644))
	var out bytes.Buffer

	err := list(testContext(t, fs, &out), "bad.pbp")
	assert.ErrorIs(t, err, pbp.ErrInvalidMagic)
}
