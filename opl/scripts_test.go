package opl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTestdataScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.opl"))
	if err != nil {
		t.Fatalf("glob testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scripts found in testdata")
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".opl")
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read script: %v", err)
			}
			want, err := os.ReadFile(strings.TrimSuffix(path, ".opl") + ".out")
			if err != nil {
				t.Fatalf("read expected output: %v", err)
			}
			if got := mustRun(t, string(source)); got != string(want) {
				t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}
