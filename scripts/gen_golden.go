package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var timeout = flag.Duration("timeout", 30*time.Second, "time limit for all programs")

// Runs every .bas program under the given directories through the
// interpreter, writing what it prints to a sibling .out file.
func main() {
	flag.Parse()
	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs = []string{"testdata"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	bin, err := build(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	defer os.RemoveAll(filepath.Dir(bin))

	eg, ctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		names, err := filepath.Glob(filepath.Join(dir, "*.bas"))
		if err != nil {
			log.Fatalln(err)
		}
		for _, name := range names {
			name := name
			eg.Go(func() error {
				return generate(ctx, bin, name)
			})
		}
	}
	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func build(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "gen_golden")
	if err != nil {
		return "", err
	}
	bin := filepath.Join(dir, "tinybasic")
	cmd := exec.CommandContext(ctx, "go", "build", "-o", bin, ".")
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("go build failed: %w", err)
	}
	return bin, nil
}

func generate(ctx context.Context, bin, name string) error {
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin)
	cmd.Stdin = in
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%v failed: %w", name, err)
	}

	outName := strings.TrimSuffix(name, ".bas") + ".out"
	if err := os.WriteFile(outName, out.Bytes(), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %v (%v bytes)", outName, out.Len())
	return nil
}
