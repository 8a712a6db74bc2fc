package fileinput_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/fileinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	io.Reader
	closed *[]string
	name   string
}

func (cr closeRecorder) Name() string { return cr.name }
func (cr closeRecorder) Close() error {
	*cr.closed = append(*cr.closed, cr.name)
	return nil
}

func Test_Input(t *testing.T) {
	var closed []string
	in := fileinput.Input{
		Queue: []io.Reader{
			closeRecorder{strings.NewReader("10 A=1\n20 PRINT A\n"), &closed, "a.bas"},
			console.NamedReader("empty", strings.NewReader("")),
			closeRecorder{strings.NewReader("RUN"), &closed, "b.bas"},
		},
	}

	type read struct {
		loc  string
		line string
	}
	var got []read
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, read{in.Location().String(), string(line)})
	}
	assert.Equal(t, []read{
		{"a.bas:1", "10 A=1"},
		{"a.bas:2", "20 PRINT A"},
		{"b.bas:1", "RUN"},
	}, got)
	assert.Equal(t, []string{"a.bas", "b.bas"}, closed)
}

func Test_Input_lineTooLong(t *testing.T) {
	in := fileinput.Input{
		MaxLine: 4,
		Queue:   []io.Reader{console.NamedReader("prog", strings.NewReader("END\nPRINT 1\nEND\n"))},
	}
	line, err := in.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "END", string(line))

	_, err = in.ReadLine()
	var le fileinput.LineError
	require.True(t, errors.As(err, &le), "expected a LineError, got %v", err)
	assert.Equal(t, fileinput.Location{Name: "prog", Line: 2}, le.Location)
	assert.True(t, errors.Is(err, console.ErrLineTooLong))
	assert.Equal(t, "prog:2: input line too long", err.Error())

	line, err = in.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "END", string(line))
	assert.NoError(t, in.Close())
}
