// Package dependabot models dependabot.yml version 2 configuration files.
//
// Unlike workflows and actions, dependabot configs carry almost no
// contextual decoding; the interesting checks are value-level (known
// ecosystems, enum fields, at least one update block) and are expressed as
// validate tags, checked by Validate after decoding.
package dependabot

import (
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/decode"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dependabot is a single dependabot.yml file.
type Dependabot struct {
	Version              int                 `yaml:"version" validate:"eq=2"`
	EnableBetaEcosystems bool                `yaml:"enable-beta-ecosystems"`
	Registries           map[string]Registry `yaml:"registries" validate:"dive"`
	Updates              []Update            `yaml:"updates" validate:"required,min=1,dive"`
}

// Validate checks the value-level constraints of a decoded config.
func (d *Dependabot) Validate() error {
	return validate.Struct(d)
}

// Registry is a private package registry used by one or more update blocks.
type Registry struct {
	Type                 string `yaml:"type" validate:"required,oneof=composer-repository docker-registry git hex-organization hex-repository maven-repository npm-registry nuget-feed python-index rubygems-server terraform-registry"`
	URL                  string `yaml:"url"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Key                  string `yaml:"key"`
	Token                string `yaml:"token"`
	ReplacesBase         bool   `yaml:"replaces-base"`
	Organization         string `yaml:"organization"`
	Repo                 string `yaml:"repo"`
	AuthKey              string `yaml:"auth-key"`
	PublicKeyFingerprint string `yaml:"public-key-fingerprint"`
}

// Update is a single update block.
type Update struct {
	PackageEcosystem              string                   `yaml:"package-ecosystem" validate:"required,oneof=bun cargo composer devcontainers docker docker-compose dotnet-sdk elm gitsubmodule github-actions gomod gradle helm maven mix npm nuget pip pub rust-toolchain swift terraform uv vcpkg"`
	Directory                     string                   `yaml:"directory"`
	Directories                   []string                 `yaml:"directories"`
	Schedule                      Schedule                 `yaml:"schedule"`
	Allow                         []Allow                  `yaml:"allow" validate:"dive"`
	Assignees                     []string                 `yaml:"assignees"`
	CommitMessage                 *CommitMessage           `yaml:"commit-message"`
	Groups                        map[string]Group         `yaml:"groups" validate:"dive"`
	Ignore                        []Ignore                 `yaml:"ignore" validate:"dive"`
	InsecureExternalCodeExecution string                   `yaml:"insecure-external-code-execution" validate:"omitempty,oneof=allow deny"`
	Labels                        []string                 `yaml:"labels"`
	Milestone                     uint64                   `yaml:"milestone"`
	OpenPullRequestsLimit         uint64                   `yaml:"open-pull-requests-limit"`
	PullRequestBranchName         *PullRequestBranchName   `yaml:"pull-request-branch-name"`
	RebaseStrategy                string                   `yaml:"rebase-strategy" validate:"omitempty,oneof=auto disabled"`
	Registries                    decode.OneOrMany[string] `yaml:"registries"`
	Reviewers                     []string                 `yaml:"reviewers"`
	TargetBranch                  string                   `yaml:"target-branch"`
	Vendor                        bool                     `yaml:"vendor"`
	VersioningStrategy            string                   `yaml:"versioning-strategy" validate:"omitempty,oneof=auto increase increase-if-necessary lockfile-only widen"`
}

// UnmarshalYAML seeds the documented defaults before decoding so that an
// omitted key keeps the default while an explicit value, including an
// explicit empty list, replaces it.
func (u *Update) UnmarshalYAML(node *yaml.Node) error {
	type plain Update
	shadow := plain{
		Labels:                []string{"dependencies"},
		OpenPullRequestsLimit: 5,
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	*u = Update(shadow)
	return nil
}

// Schedule is the update cadence of an update block.
type Schedule struct {
	Interval string `yaml:"interval" validate:"required,oneof=daily weekly monthly quarterly semiannually yearly cron"`
	Day      string `yaml:"day" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Time     string `yaml:"time"`
	Timezone string `yaml:"timezone"`
	Cronjob  string `yaml:"cronjob"`
}

// Allow widens the set of dependencies an update block maintains.
type Allow struct {
	DependencyName string `yaml:"dependency-name"`
	DependencyType string `yaml:"dependency-type" validate:"omitempty,oneof=direct indirect all production development"`
}

// Ignore narrows the set of dependencies an update block maintains.
type Ignore struct {
	DependencyName string   `yaml:"dependency-name"`
	UpdateTypes    []string `yaml:"update-types" validate:"omitempty,dive,oneof=version-update:semver-major version-update:semver-minor version-update:semver-patch"`
	Versions       []string `yaml:"versions"`
}

// Group batches related dependencies into a single pull request.
type Group struct {
	AppliesTo       string   `yaml:"applies-to" validate:"omitempty,oneof=version-updates security-updates"`
	DependencyType  string   `yaml:"dependency-type" validate:"omitempty,oneof=development production"`
	Patterns        []string `yaml:"patterns"`
	ExcludePatterns []string `yaml:"exclude-patterns"`
	UpdateTypes     []string `yaml:"update-types" validate:"omitempty,dive,oneof=major minor patch"`
}

// CommitMessage customizes the commit messages of update pull requests.
type CommitMessage struct {
	Prefix            string `yaml:"prefix"`
	PrefixDevelopment string `yaml:"prefix-development"`
	Include           string `yaml:"include" validate:"omitempty,oneof=scope"`
}

// PullRequestBranchName customizes generated branch names.
type PullRequestBranchName struct {
	Separator string `yaml:"separator" validate:"omitempty,oneof=- _ /"`
}
