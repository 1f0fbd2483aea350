package test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// AssertIdempotent runs fn twice against the file at path and asserts that
// the second run leaves the file exactly as the first run did.
func AssertIdempotent(t *testing.T, fs afero.Fs, path string, fn func(*testing.T)) {
	t.Helper()
	var first []byte
	for i := 0; i < 2; i++ {
		fn(t)
		if t.Failed() {
			return
		}
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		if i == 0 {
			first = data
			continue
		}
		if string(first) != string(data) {
			t.Fatal("the function is not idempotent")
		}
	}
}
