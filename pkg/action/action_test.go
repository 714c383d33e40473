package action

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/uses"
)

func TestJavaScriptAction(t *testing.T) {
	input := strings.TrimSpace(`
name: setup-widget
author: octocat
description: Sets up the widget toolchain.
inputs:
  version:
    description: Version to install.
    required: true
  cache:
    description: Enable caching.
    default: true
outputs:
  widget-path:
    description: Install location.
runs:
  using: node24
  main: dist/index.js
  post: dist/cleanup.js
  post-if: success()
`)

	var a Action
	if err := yaml.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if a.Name != "setup-widget" || a.Author != "octocat" {
		t.Errorf("metadata = %q by %q", a.Name, a.Author)
	}
	version, ok := a.Inputs["version"]
	if !ok || !version.Required {
		t.Errorf("version input = %+v", version)
	}
	cache := a.Inputs["cache"]
	if cache.Default == nil || cache.Default.String() != "true" {
		t.Errorf("cache default = %v, want the stringified boolean", cache.Default)
	}

	if a.Runs.JavaScript == nil {
		t.Fatal("expected a JavaScript body")
	}
	js := a.Runs.JavaScript
	if js.Using != "node24" || js.Main != "dist/index.js" || js.PostIf != "success()" {
		t.Errorf("runs = %+v", js)
	}
}

func TestCompositeAction(t *testing.T) {
	input := strings.TrimSpace(`
name: build-and-test
description: Builds then tests.
runs:
  using: composite
  steps:
    - uses: actions/setup-go@v5
      with:
        go-version: stable
    - run: make test
      shell: bash
`)

	var a Action
	if err := yaml.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Runs.Composite == nil {
		t.Fatal("expected a composite body")
	}
	steps := a.Runs.Composite.Steps
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}

	repo, ok := steps[0].Uses.Uses.(uses.Repository)
	if !ok || repo.Repo != "setup-go" || repo.Ref != "v5" {
		t.Errorf("first step reference = %+v", steps[0].Uses)
	}
	if steps[1].Run == nil || steps[1].Run.Shell != "bash" {
		t.Errorf("second step = %+v", steps[1].Run)
	}
}

func TestCompositeRunStepRequiresShell(t *testing.T) {
	input := strings.TrimSpace(`
using: composite
steps:
  - run: make test
`)
	var r Runs
	if err := yaml.Unmarshal([]byte(input), &r); err == nil {
		t.Fatal("expected a decode error for a shell-less run step")
	}
}

func TestDockerAction(t *testing.T) {
	input := strings.TrimSpace(`
using: docker
image: Dockerfile
entrypoint: /entry.sh
args:
  - --verbose
env:
  MODE: strict
`)
	var r Runs
	if err := yaml.Unmarshal([]byte(input), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Docker == nil {
		t.Fatal("expected a Docker body")
	}
	d := r.Docker
	if d.Image != "Dockerfile" || d.Entrypoint != "/entry.sh" {
		t.Errorf("docker body = %+v", d)
	}
	if got := d.Env["MODE"].String(); got != "strict" {
		t.Errorf("env MODE = %q", got)
	}
}

func TestUnknownRuntime(t *testing.T) {
	var r Runs
	if err := yaml.Unmarshal([]byte("using: python3\nmain: main.py\n"), &r); err == nil {
		t.Fatal("expected a decode error for an unknown runtime")
	}
}
