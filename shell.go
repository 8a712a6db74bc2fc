package main

import (
	"os"
	"strings"

	"github.com/danswartzendruber/liner"

	"github.com/jcorbin/tinybasic/internal/console"
)

// shell reads lines from a terminal with editing and history.
type shell struct {
	state   *liner.State
	prompt  string
	history string
	intr    *console.Interrupt
}

func newShell(history string, intr *console.Interrupt) *shell {
	sh := &shell{
		state:   liner.NewLiner(),
		prompt:  "> ",
		history: history,
		intr:    intr,
	}
	sh.state.SetMultiLineMode(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			sh.state.ReadHistory(f)
			f.Close()
		}
	}
	return sh
}

// ReadLine prompts for a line, discarding any interrupt received while idle.
func (sh *shell) ReadLine() ([]byte, error) {
	for {
		s, err := sh.state.Prompt(sh.prompt)
		if err == liner.ErrPromptAborted {
			continue
		} else if err != nil {
			return nil, err
		}
		if sh.intr != nil {
			sh.intr.Take()
		}
		if strings.TrimSpace(s) != "" {
			sh.state.AppendHistory(s)
		}
		return []byte(s), nil
	}
}

// Close saves history, if enabled, and restores the terminal.
func (sh *shell) Close() (err error) {
	if sh.history != "" {
		var f *os.File
		if f, err = os.Create(sh.history); err == nil {
			_, err = sh.state.WriteHistory(f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if cerr := sh.state.Close(); err == nil {
		err = cerr
	}
	return err
}
