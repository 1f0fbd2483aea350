package test

import (
	"testing"

	"github.com/go-kit/log"
)

type testingLogger struct {
	t testing.TB
}

// NewTestingLogger returns a logger that forwards every record to t.Log.
func NewTestingLogger(t testing.TB) log.Logger {
	return &testingLogger{
		t: t,
	}
}

func (l *testingLogger) Log(keyvals ...interface{}) error {
	l.t.Helper()
	l.t.Log(keyvals...)
	return nil
}
