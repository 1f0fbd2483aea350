// Package toolctx carries the logger, file system and output writer of a
// command through a context.
package toolctx

import (
	"context"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
)

type contextKey int

const (
	loggerKey contextKey = iota
	fsKey
	outputKey
)

var (
	defaultLogger = log.NewLogfmtLogger(os.Stderr)
)

func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func Logger(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger
	}
	return defaultLogger
}

func WithFs(ctx context.Context, fs afero.Fs) context.Context {
	return context.WithValue(ctx, fsKey, fs)
}

// Fs returns the file system of ctx, the OS one by default.
func Fs(ctx context.Context) afero.Fs {
	if fs, ok := ctx.Value(fsKey).(afero.Fs); ok {
		return fs
	}
	return afero.NewOsFs()
}

func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey, w)
}

func Output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey).(io.Writer); ok {
		return w
	}
	return os.Stdout
}
