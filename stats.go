package main

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/tklauser/go-sysconf"

	"github.com/jcorbin/tinybasic/internal/logio"
)

func reportStats(log *logio.Logger, stats RunStats) {
	if stats.Start.IsZero() {
		log.Printf("STATS", "no program run")
		return
	}
	log.Printf("STATS", "%v statements in %v", stats.Statements, stats.Elapsed)
	if user, sys, err := cpuTimes(); err == nil {
		log.Printf("STATS", "cpu user %v system %v", user, sys)
	}
}

// cpuTimes returns the user and system CPU time consumed by this process.
func cpuTimes() (user, sys time.Duration, err error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0, err
	}
	if clktck <= 0 {
		return 0, 0, errors.New("invalid clock tick rate")
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, err
	}
	// fields after the parenthesized command name, starting with state
	if i := bytes.LastIndexByte(contents, ')'); i >= 0 {
		contents = contents[i+1:]
	}
	fields := bytes.Fields(contents)
	if len(fields) < 13 {
		return 0, 0, errors.New("short /proc/self/stat")
	}
	utime, err := strconv.ParseInt(string(fields[11]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	stime, err := strconv.ParseInt(string(fields[12]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	tick := time.Second / time.Duration(clktck)
	return time.Duration(utime) * tick, time.Duration(stime) * tick, nil
}
