package arena_test

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/jcorbin/tinybasic/internal/arena"
	"github.com/jcorbin/tinybasic/internal/panicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Arena(t *testing.T) {
	for _, tc := range []arenaTestCase{
		arenaTest("basic", 64,
			"init", func(t *testing.T, a *arena.Arena) {
				require.True(t, a.Empty(), "expected empty arena")
				require.Equal(t, 64, a.Free(), "expected all bytes free")
				off, found := a.Find(10)
				require.False(t, found, "must not find line 10")
				require.Equal(t, 0, off, "expected not found offset to be end")
			},

			"10 PRINT 1", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("PRINT 1")), "must store line 10")
				expectRaw(t, a,
					10, 0, 'P', 'R', 'I', 'N', 'T', ' ', '1', 0)
				off, found := a.Find(10)
				require.True(t, found, "must find line 10")
				require.Equal(t, arena.HeaderSize, off, "expected text offset")
			},

			"30 END", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(30, []byte("END")), "must store line 30")
				expectRaw(t, a,
					10, 0, 'P', 'R', 'I', 'N', 'T', ' ', '1', 0,
					30, 0, 'E', 'N', 'D', 0)
			},

			"20 A=1 goes between", func(t *testing.T, a *arena.Arena) {
				require.Equal(t, 10, a.InsertionPoint(20), "expected insertion before 30")
				require.NoError(t, a.Upsert(20, []byte("A=1")), "must store line 20")
				expectRaw(t, a,
					10, 0, 'P', 'R', 'I', 'N', 'T', ' ', '1', 0,
					20, 0, 'A', '=', '1', 0,
					30, 0, 'E', 'N', 'D', 0)
				expectNumbers(t, a, 10, 20, 30)
			},

			"replace 10 with a shorter line", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("REM  \t ")), "must replace line 10")
				expectRaw(t, a,
					10, 0, 'R', 'E', 'M', 0,
					20, 0, 'A', '=', '1', 0,
					30, 0, 'E', 'N', 'D', 0)
			},

			"delete 20", func(t *testing.T, a *arena.Arena) {
				before := a.Len()
				require.NoError(t, a.Delete(20), "must delete line 20")
				require.Equal(t, before-6, a.Len(), "expected end to shrink by the record size")
				expectRaw(t, a,
					10, 0, 'R', 'E', 'M', 0,
					30, 0, 'E', 'N', 'D', 0)
			},

			"delete missing is a noop", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Delete(25), "must delete missing line")
				expectNumbers(t, a, 10, 30)
			},

			"upsert empty text deletes", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("   ")), "must delete line 10")
				expectNumbers(t, a, 30)
			},

			"reset", func(t *testing.T, a *arena.Arena) {
				a.Reset()
				require.True(t, a.Empty(), "expected empty arena")
				expectNumbers(t, a)
			},
		),

		arenaTest("large line numbers", 64,
			"little endian header", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(9999, []byte("END")))
				require.NoError(t, a.Upsert(256, []byte("REM")))
				expectRaw(t, a,
					0x00, 0x01, 'R', 'E', 'M', 0,
					0x0f, 0x27, 'E', 'N', 'D', 0)
			},
		),

		arenaTest("out of space", 16,
			"fill", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("PRINT 1")))
				require.Equal(t, 6, a.Free(), "expected free bytes")
			},

			"too big", func(t *testing.T, a *arena.Arena) {
				before := append([]byte(nil), a.Bytes()...)
				err := a.Upsert(5, []byte("PRINT"))
				require.True(t, errors.Is(err, arena.ErrOutOfSpace), "expected out of space, got %v", err)
				var se arena.SpaceError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, arena.SpaceError{Need: 8, Free: 6}, se)
				require.Equal(t, before, a.Bytes(), "arena must be unchanged")
			},

			"replacing counts the old record as free", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("PRINT 1234567")))
				expectNumbers(t, a, 10)
				require.Equal(t, 0, a.Free(), "expected a full arena")
			},

			"replacement too big leaves old record", func(t *testing.T, a *arena.Arena) {
				err := a.Upsert(10, []byte("PRINT 12345678"))
				require.True(t, errors.Is(err, arena.ErrOutOfSpace), "expected out of space, got %v", err)
				off, found := a.Find(10)
				require.True(t, found)
				rec, err := a.At(off - arena.HeaderSize)
				require.NoError(t, err)
				require.Equal(t, "PRINT 1234567", string(rec.Text))
			},
		),

		arenaTest("invalid input", 32,
			"zero", func(t *testing.T, a *arena.Arena) {
				require.Equal(t, arena.ErrZeroNumber, a.Upsert(0, []byte("END")))
			},
			"nul", func(t *testing.T, a *arena.Arena) {
				require.Equal(t, arena.ErrNUL, a.Upsert(1, []byte("E\x00D")))
				require.True(t, a.Empty())
			},
		),

		arenaTest("corruption", 32,
			"unterminated", func(t *testing.T, a *arena.Arena) {
				require.NoError(t, a.Upsert(10, []byte("END")))
				a.Corrupt(5, 'X')
				it := a.Iter()
				require.False(t, it.Next())
				require.True(t, errors.Is(it.Err(), arena.ErrCorrupt), "expected corrupt error, got %v", it.Err())
				require.Panics(t, func() { a.Find(20) })
			},
		),
	} {
		t.Run(tc.name, tc.run)
	}
}

func Test_Arena_sorted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := arena.New(arena.DefaultSize)
	want := make(map[arena.Number]string)
	for i := 0; i < 2000; i++ {
		n := arena.Number(1 + rng.Intn(200))
		text := ""
		if rng.Intn(4) != 0 {
			text = fmt.Sprintf("PRINT %v", rng.Intn(1000))
		}
		err := a.Upsert(n, []byte(text))
		if errors.Is(err, arena.ErrOutOfSpace) {
			continue
		}
		require.NoError(t, err, "unexpected upsert error")
		if text == "" {
			delete(want, n)
		} else {
			want[n] = text
		}
	}

	var wantNums []int
	for n := range want {
		wantNums = append(wantNums, int(n))
	}
	sort.Ints(wantNums)

	var gotNums []int
	size := 0
	it := a.Iter()
	for it.Next() {
		rec := it.Record()
		gotNums = append(gotNums, int(rec.Number))
		assert.Equal(t, want[rec.Number], string(rec.Text), "expected line %v text", rec.Number)
		size += rec.Size()
	}
	require.NoError(t, it.Err())
	assert.Equal(t, wantNums, gotNums, "expected strictly ascending unique numbers")
	assert.Equal(t, a.Len(), size, "expected records to be contiguous")
}

func expectRaw(t *testing.T, a *arena.Arena, values ...byte) {
	require.Equal(t, values, a.Bytes(), "expected raw arena bytes")
	require.Equal(t, len(values), a.Len(), "expected arena end")
}

func expectNumbers(t *testing.T, a *arena.Arena, nums ...arena.Number) {
	var got []arena.Number
	it := a.Iter()
	for it.Next() {
		got = append(got, it.Record().Number)
	}
	require.NoError(t, it.Err(), "unexpected iteration error")
	require.Equal(t, nums, got, "expected line numbers")
}

func arenaTest(name string, size int, args ...interface{}) (tc arenaTestCase) {
	tc.name = name
	tc.size = size
	for i := 0; i < len(args); i++ {
		var step arenaTestStep
		step.name = args[i].(string)
		if i++; i >= len(args) {
			panic("arenaTest: missing function argument after name")
		}
		step.f = args[i].(func(t *testing.T, a *arena.Arena))
		tc.steps = append(tc.steps, step)
	}
	return tc
}

type arenaTestCase struct {
	name  string
	size  int
	steps []arenaTestStep
}

type arenaTestStep struct {
	name string
	f    func(t *testing.T, a *arena.Arena)
}

func (tc arenaTestCase) run(t *testing.T) {
	a := arena.New(tc.size)
	defer func() {
		if t.Failed() {
			t.Logf("arena: % x", a.Bytes())
		}
	}()
	for _, step := range tc.steps {
		step := step
		if !t.Run(step.name, func(t *testing.T) {
			if err := panicerr.Recover(t.Name(), func() error {
				step.f(t, a)
				return nil
			}); err != nil {
				t.Logf("%+v", err)
				t.Fail()
			}
		}) {
			break
		}
	}
}
