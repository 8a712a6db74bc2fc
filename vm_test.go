package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/console"
	"github.com/jcorbin/tinybasic/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []interface{}
	lines   []string
	expect  []func(t *testing.T, run *vmTestRun)
	timeout time.Duration
	wantErr error

	exclusive bool
}

// vmTestRun is the state of one test case run: the VM, everything it wrote,
// and the error returned by each entered line.
type vmTestRun struct {
	*VM
	out  strings.Builder
	logs []string
	errs []error
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withArenaSize(size int) vmTestCase {
	return vmt.withOptions(WithArenaSize(size))
}

func (vmt vmTestCase) withVar(letter byte, value int32) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.vars.Set(letter, value)
	}))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(t *testing.T) VMOption {
		return WithInput(console.NamedReader(t.Name()+"/input", strings.NewReader(input)))
	})
	return vmt
}

// withProgram stores lines directly, before any line is entered.
func (vmt vmTestCase) withProgram(lines ...string) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.init()
		for _, line := range lines {
			if err := vm.storeLine([]byte(line)); err != nil {
				panic(fmt.Sprintf("invalid test program line %q: %v", line, err))
			}
		}
	}))
	return vmt
}

// do enters lines, as if typed at the prompt.
func (vmt vmTestCase) do(lines ...string) vmTestCase {
	vmt.lines = append(vmt.lines, lines...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

// expectError expects the last entered line to fail with err; every prior
// line must succeed.
func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStmtError(line arena.Number, text string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		var se StmtError
		if assert.True(t, errors.As(run.lastErr(), &se), "expected a StmtError, got %v", run.lastErr()) {
			assert.Equal(t, line, se.Line, "expected error line number")
			assert.Equal(t, text, se.Text, "expected error statement")
		}
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		assert.Equal(t, output, run.out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectVar(letter byte, value int32) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		assert.Equal(t, value, run.vars.Get(letter), "expected variable %c", letter)
	})
	return vmt
}

func (vmt vmTestCase) expectListing(lines ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		var sb strings.Builder
		require.NoError(t, run.writeListing(&sb))
		want := ""
		if len(lines) > 0 {
			want = strings.Join(lines, "\n") + "\n"
		}
		assert.Equal(t, want, sb.String(), "expected program listing")
	})
	return vmt
}

func (vmt vmTestCase) expectFree(free int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		assert.Equal(t, free, run.Free(), "expected free program bytes")
	})
	return vmt
}

func (vmt vmTestCase) expectIdle() vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		assert.False(t, run.Running(), "expected VM to be idle")
	})
	return vmt
}

func (vmt vmTestCase) expectStatements(n int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, run *vmTestRun) {
		assert.Equal(t, n, run.Stats().Statements, "expected statement count")
	})
	return vmt
}

func (vmt vmTestCase) expectThat(f func(t *testing.T, run *vmTestRun)) vmTestCase {
	vmt.expect = append(vmt.expect, f)
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	run := vmt.build(t)
	defer func() {
		if t.Failed() {
			for _, log := range run.logs {
				t.Log(log)
			}
			vmt.dumpToTest(t, run.VM)
		}
	}()

	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, line := range vmt.lines {
		run.logf(">", "%v", line)
		run.errs = append(run.errs, run.Exec(ctx, []byte(line)))
	}
	assert.NoError(t, run.Close(), "unexpected VM close error")

	for i, err := range run.errs {
		if i == len(run.errs)-1 && vmt.wantErr != nil {
			assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
		} else {
			assert.NoError(t, err, "unexpected error from line %q", vmt.lines[i])
		}
	}
	if vmt.wantErr != nil && len(run.errs) == 0 {
		assert.Fail(t, "expected error from a line, but no lines entered", "%v", vmt.wantErr)
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, run)
		}
	}
}

func (vmt vmTestCase) build(t *testing.T) *vmTestRun {
	var run vmTestRun

	opts := []VMOption{
		WithOutput(&run.out),
		WithTee(&logio.Writer{Logf: func(mess string, args ...interface{}) {
			run.logs = append(run.logs, "out: "+fmt.Sprintf(mess, args...))
		}}),
		WithLogf(func(mess string, args ...interface{}) {
			run.logs = append(run.logs, fmt.Sprintf(mess, args...))
		}),
	}
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(t *testing.T) VMOption:
			opts = append(opts, impl(t))
		case VMOption:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	run.VM = New(opts...)
	return &run
}

func (run *vmTestRun) lastErr() error {
	if len(run.errs) == 0 {
		return nil
	}
	return run.errs[len(run.errs)-1]
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Flush()
	vmDumper{vm: vm, out: &lw, rawRecords: true}.dump()
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

// pendingInput reports input pending once its countdown of polls runs out,
// like a terminal where a key was pressed while a program ran.
type pendingInput struct {
	*console.Reader
	polls int
}

func (pi *pendingInput) InputPending() bool {
	if pi.polls > 0 {
		pi.polls--
		return false
	}
	return true
}

type failingWriter struct{ err error }

func (fw failingWriter) Write(p []byte) (int, error) { return 0, fw.err }
