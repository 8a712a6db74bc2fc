package main

//go:generate go run scripts/gen_golden.go -- testdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_golden runs each testdata/*.bas file as standard input, comparing
// everything written with the matching .out file.
func Test_golden(t *testing.T) {
	names, err := filepath.Glob(filepath.Join("testdata", "*.bas"))
	require.NoError(t, err)
	require.NotEmpty(t, names, "expected golden programs")

	for _, name := range names {
		name := name
		t.Run(strings.TrimSuffix(filepath.Base(name), ".bas"), func(t *testing.T) {
			want, err := os.ReadFile(strings.TrimSuffix(name, ".bas") + ".out")
			require.NoError(t, err, "missing golden output")

			f, err := os.Open(name)
			require.NoError(t, err)
			defer f.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var out strings.Builder
			vm := New(WithInput(f), WithOutput(&out))
			require.NoError(t, vm.Run(ctx))
			require.NoError(t, vm.Close())
			assert.Equal(t, string(want), out.String())
		})
	}
}
