package pbp

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspdev/psptools/pkg/test"
)

func TestPackUnpack(t *testing.T) {
	fs := afero.NewMemMapFs()
	sfo := writeFile(t, fs, "in/PARAM.SFO", 24)
	icon := writeFile(t, fs, "in/icon0.png", 300)
	exe := writeFile(t, fs, "in/app.prx", 1000)
	psar := writeFile(t, fs, "in/data.psar", 7)

	var in Inputs
	in[SlotParamSFO] = File("in/PARAM.SFO")
	in[SlotIcon0] = File("in/icon0.png")
	in[SlotDataPSP] = File("in/app.prx")
	in[SlotDataPSAR] = File("in/data.psar")
	logger := test.NewTestingLogger(t)
	_, err := NewPacker(fs, logger).Pack("EBOOT.PBP", in)
	require.NoError(t, err)

	c, err := Open(fs, "EBOOT.PBP")
	require.NoError(t, err)
	assert.Equal(t, []Slot{SlotParamSFO, SlotIcon0, SlotDataPSP, SlotDataPSAR}, c.Present())
	assert.Equal(t, exe, c.Segment(SlotDataPSP))
	assert.Empty(t, c.Segment(SlotSnd0))

	written, err := Unpack(fs, logger, "EBOOT.PBP", "out")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("out", "PARAM.SFO"),
		filepath.Join("out", "ICON0.PNG"),
		filepath.Join("out", "DATA.PSP"),
		filepath.Join("out", "DATA.PSAR"),
	}, written)
	for path, want := range map[string][]byte{
		"out/PARAM.SFO": sfo,
		"out/ICON0.PNG": icon,
		"out/DATA.PSP":  exe,
		"out/DATA.PSAR": psar,
	} {
		got, err := afero.ReadFile(fs, filepath.FromSlash(path))
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func header(offsets ...uint32) []byte {
	h := newHeader()
	copy(h.Offsets[:], offsets)
	b, _ := h.MarshalBinary()
	return b
}

func TestDecodeErrors(t *testing.T) {
	valid := header(40, 40, 40, 40, 40, 40, 40, 40)
	badVersion := append([]byte(nil), valid...)
	badVersion[6] = 2

	for _, tc := range []struct {
		name string
		data []byte
		err  error
	}{
		{name: "bad magic", data: append([]byte("\x7fELF"), valid[4:]...), err: ErrInvalidMagic},
		{name: "bad version", data: badVersion, err: ErrInvalidVersion},
		{name: "offset inside header", data: header(8, 40, 40, 40, 40, 40, 40, 40), err: ErrInvalidOffsets},
		{name: "decreasing offsets", data: append(header(40, 44, 42, 44, 44, 44, 44, 44), make([]byte, 4)...), err: ErrInvalidOffsets},
		{name: "offset past end", data: header(40, 40, 40, 40, 40, 40, 40, 41), err: ErrInvalidOffsets},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.True(t, errors.Is(err, tc.err), "unexpected error: %v", err)
		})
	}

	_, err := Decode(valid[:HeaderSize-1])
	assert.Error(t, err)

	c, err := Decode(append(valid, bytes.Repeat([]byte{1}, 3)...))
	require.NoError(t, err)
	assert.Equal(t, []Slot{SlotDataPSAR}, c.Present())
}
