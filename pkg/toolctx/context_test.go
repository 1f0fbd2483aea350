package toolctx

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, defaultLogger, Logger(ctx))
	assert.IsType(t, &afero.OsFs{}, Fs(ctx))
	assert.Equal(t, os.Stdout, Output(ctx))
}

func TestWith(t *testing.T) {
	logger := log.NewNopLogger()
	fs := afero.NewMemMapFs()
	var out bytes.Buffer

	ctx := WithOutput(WithFs(WithLogger(context.Background(), logger), fs), &out)
	assert.Equal(t, logger, Logger(ctx))
	assert.Equal(t, fs, Fs(ctx))
	assert.Equal(t, &out, Output(ctx))
}
