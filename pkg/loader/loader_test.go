package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const sampleWorkflow = `
name: CI
on: [push]
jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - run: make test
`

const sampleAction = `
name: setup
description: Installs the toolchain.
runs:
  using: node24
  main: dist/index.js
`

const sampleDependabot = `
version: 2
updates:
  - package-ecosystem: gomod
    directory: /
    schedule:
      interval: weekly
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{path: ".github/dependabot.yml", want: KindDependabot},
		{path: "dependabot.yaml", want: KindDependabot},
		{path: "my-action/action.yml", want: KindAction},
		{path: "action.yaml", want: KindAction},
		{path: ".github/workflows/ci.yml", want: KindWorkflow},
		{path: "release.yaml", want: KindWorkflow},
		{path: "README.md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectKind(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKind: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(zerolog.Nop())

	wf, err := l.LoadFile(writeFile(t, dir, "ci.yml", sampleWorkflow))
	if err != nil {
		t.Fatalf("load workflow: %v", err)
	}
	if wf.Kind != KindWorkflow || wf.Workflow == nil || wf.Workflow.Name != "CI" {
		t.Errorf("workflow file = %+v", wf)
	}

	act, err := l.LoadFile(writeFile(t, dir, "action.yml", sampleAction))
	if err != nil {
		t.Fatalf("load action: %v", err)
	}
	if act.Kind != KindAction || act.Action == nil || act.Action.Runs.JavaScript == nil {
		t.Errorf("action file = %+v", act)
	}

	dep, err := l.LoadFile(writeFile(t, dir, "dependabot.yml", sampleDependabot))
	if err != nil {
		t.Fatalf("load dependabot: %v", err)
	}
	if dep.Kind != KindDependabot || dep.Dependabot == nil || len(dep.Dependabot.Updates) != 1 {
		t.Errorf("dependabot file = %+v", dep)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(zerolog.Nop())

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "workflow without triggers",
			file:    "no-triggers.yml",
			content: "name: CI\njobs:\n  test:\n    runs-on: ubuntu-latest\n    steps:\n      - run: make\n",
		},
		{
			name:    "workflow without jobs",
			file:    "no-jobs.yml",
			content: "name: CI\non: [push]\n",
		},
		{
			name:    "dependabot wrong version",
			file:    "dependabot.yml",
			content: "version: 1\nupdates:\n  - package-ecosystem: gomod\n    schedule:\n      interval: daily\n",
		},
		{
			name:    "not yaml",
			file:    "broken.yml",
			content: "on: [push\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := filepath.Join(dir, tt.name)
			if err := os.MkdirAll(sub, 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if _, err := l.LoadFile(writeFile(t, sub, tt.file, tt.content)); err == nil {
				t.Fatal("expected a load error")
			}
		})
	}
}

func TestLoadFromPathsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ci.yml", sampleWorkflow)
	writeFile(t, dir, "dependabot.yml", sampleDependabot)
	writeFile(t, dir, "notes.txt", "not yaml")
	// Invalid files are logged and skipped during directory walks.
	writeFile(t, dir, "broken.yml", "on: [push\n")

	l := NewLoader(zerolog.Nop())
	files, err := l.LoadFromPaths(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("loaded %d files, want 2", len(files))
	}
}

func TestLoadFileCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.yml", sampleWorkflow)

	l := NewLoader(zerolog.Nop())
	first, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first != second {
		t.Error("expected the cached file on the second load")
	}

	l.ClearCache()
	third, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if first == third {
		t.Error("expected a fresh decode after clearing the cache")
	}
}
