package dependabot

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func decodeConfig(t *testing.T, input string) (*Dependabot, error) {
	t.Helper()
	var d Dependabot
	if err := yaml.Unmarshal([]byte(input), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &d, d.Validate()
}

func TestDependabotDecode(t *testing.T) {
	input := strings.TrimSpace(`
version: 2
registries:
  internal-npm:
    type: npm-registry
    url: https://npm.example.com
    token: ${{ secrets.NPM_TOKEN }}
updates:
  - package-ecosystem: gomod
    directory: /
    schedule:
      interval: weekly
      day: monday
    registries:
      - internal-npm
    groups:
      minor-and-patch:
        update-types: [minor, patch]
  - package-ecosystem: github-actions
    directory: /
    schedule:
      interval: daily
    labels: []
    open-pull-requests-limit: 10
    ignore:
      - dependency-name: actions/checkout
        update-types: ["version-update:semver-major"]
`)

	d, err := decodeConfig(t, input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if d.Version != 2 {
		t.Errorf("Version = %d", d.Version)
	}
	reg, ok := d.Registries["internal-npm"]
	if !ok || reg.Type != "npm-registry" {
		t.Errorf("registry = %+v", reg)
	}

	gomod := d.Updates[0]
	if gomod.Schedule.Interval != "weekly" || gomod.Schedule.Day != "monday" {
		t.Errorf("gomod schedule = %+v", gomod.Schedule)
	}
	if !reflect.DeepEqual(gomod.Labels, []string{"dependencies"}) {
		t.Errorf("gomod labels = %v, want the dependencies default", gomod.Labels)
	}
	if gomod.OpenPullRequestsLimit != 5 {
		t.Errorf("gomod limit = %d, want the default 5", gomod.OpenPullRequestsLimit)
	}

	gha := d.Updates[1]
	if len(gha.Labels) != 0 {
		t.Errorf("gha labels = %v, want an explicit empty list", gha.Labels)
	}
	if gha.OpenPullRequestsLimit != 10 {
		t.Errorf("gha limit = %d", gha.OpenPullRequestsLimit)
	}
	if len(gha.Ignore) != 1 || gha.Ignore[0].DependencyName != "actions/checkout" {
		t.Errorf("gha ignore = %+v", gha.Ignore)
	}
}

func TestDependabotValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "wrong version",
			input: "version: 1\nupdates:\n  - package-ecosystem: gomod\n    schedule:\n      interval: daily\n",
		},
		{
			name:  "no update blocks",
			input: "version: 2\nupdates: []\n",
		},
		{
			name:  "unknown ecosystem",
			input: "version: 2\nupdates:\n  - package-ecosystem: leftpad\n    schedule:\n      interval: daily\n",
		},
		{
			name:  "unknown interval",
			input: "version: 2\nupdates:\n  - package-ecosystem: gomod\n    schedule:\n      interval: fortnightly\n",
		},
		{
			name:  "unknown rebase strategy",
			input: "version: 2\nupdates:\n  - package-ecosystem: gomod\n    schedule:\n      interval: daily\n    rebase-strategy: sometimes\n",
		},
		{
			name:  "unknown registry type",
			input: "version: 2\nregistries:\n  r:\n    type: ftp-server\nupdates:\n  - package-ecosystem: gomod\n    schedule:\n      interval: daily\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeConfig(t, tt.input); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
