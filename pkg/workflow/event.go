package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/decode"
)

// Event is a webhook event name that can trigger a workflow without a body,
// e.g. `on: push`.
type Event string

// knownEvents is the set of events that may appear bare. `schedule` is
// absent: it always carries a cron body.
var knownEvents = map[Event]bool{
	"branch_protection_rule":      true,
	"check_run":                   true,
	"check_suite":                 true,
	"create":                      true,
	"delete":                      true,
	"deployment":                  true,
	"deployment_status":           true,
	"discussion":                  true,
	"discussion_comment":          true,
	"fork":                        true,
	"gollum":                      true,
	"issue_comment":               true,
	"issues":                      true,
	"label":                       true,
	"merge_group":                 true,
	"milestone":                   true,
	"page_build":                  true,
	"project":                     true,
	"project_card":                true,
	"project_column":              true,
	"public":                      true,
	"pull_request":                true,
	"pull_request_comment":        true,
	"pull_request_review":         true,
	"pull_request_review_comment": true,
	"pull_request_target":         true,
	"push":                        true,
	"registry_package":            true,
	"release":                     true,
	"repository_dispatch":         true,
	"status":                      true,
	"watch":                       true,
	"workflow_call":               true,
	"workflow_dispatch":           true,
	"workflow_run":                true,
}

// UnmarshalYAML validates the event name against the known set.
func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if !knownEvents[Event(s)] {
		return fmt.Errorf("line %d: unknown event %q", node.Line, s)
	}
	*e = Event(s)
	return nil
}

// Events is the rich trigger mapping: each event name with its optional
// filter body. Every field is tri-state (see decode.OptionalBody): a key
// that never appears stays Missing, `pull_request:` with no body is
// Default, and a body decodes into the event's filter type.
type Events struct {
	BranchProtectionRule     decode.OptionalBody[GenericEvent]
	CheckRun                 decode.OptionalBody[GenericEvent]
	CheckSuite               decode.OptionalBody[GenericEvent]
	Discussion               decode.OptionalBody[GenericEvent]
	DiscussionComment        decode.OptionalBody[GenericEvent]
	IssueComment             decode.OptionalBody[GenericEvent]
	Issues                   decode.OptionalBody[GenericEvent]
	Label                    decode.OptionalBody[GenericEvent]
	MergeGroup               decode.OptionalBody[GenericEvent]
	Milestone                decode.OptionalBody[GenericEvent]
	Project                  decode.OptionalBody[GenericEvent]
	ProjectCard              decode.OptionalBody[GenericEvent]
	ProjectColumn            decode.OptionalBody[GenericEvent]
	PullRequest              decode.OptionalBody[PullRequest]
	PullRequestComment       decode.OptionalBody[GenericEvent]
	PullRequestReview        decode.OptionalBody[GenericEvent]
	PullRequestReviewComment decode.OptionalBody[GenericEvent]
	PullRequestTarget        decode.OptionalBody[PullRequest]
	Push                     decode.OptionalBody[Push]
	RegistryPackage          decode.OptionalBody[GenericEvent]
	Release                  decode.OptionalBody[GenericEvent]
	RepositoryDispatch       decode.OptionalBody[GenericEvent]
	Schedule                 decode.OptionalBody[[]Cron]
	Watch                    decode.OptionalBody[GenericEvent]
	WorkflowCall             decode.OptionalBody[WorkflowCall]
	WorkflowDispatch         decode.OptionalBody[WorkflowDispatch]
	WorkflowRun              decode.OptionalBody[WorkflowRun]
}

// UnmarshalYAML walks the raw trigger mapping so that present-but-null keys
// land in the Default state. Unknown keys are ignored, matching the
// permissive treatment of unrecognized trigger names elsewhere in the
// ecosystem.
func (e *Events) UnmarshalYAML(node *yaml.Node) error {
	return decode.Mapping(node, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "branch_protection_rule":
			e.BranchProtectionRule, err = decode.Optional[GenericEvent](value)
		case "check_run":
			e.CheckRun, err = decode.Optional[GenericEvent](value)
		case "check_suite":
			e.CheckSuite, err = decode.Optional[GenericEvent](value)
		case "discussion":
			e.Discussion, err = decode.Optional[GenericEvent](value)
		case "discussion_comment":
			e.DiscussionComment, err = decode.Optional[GenericEvent](value)
		case "issue_comment":
			e.IssueComment, err = decode.Optional[GenericEvent](value)
		case "issues":
			e.Issues, err = decode.Optional[GenericEvent](value)
		case "label":
			e.Label, err = decode.Optional[GenericEvent](value)
		case "merge_group":
			e.MergeGroup, err = decode.Optional[GenericEvent](value)
		case "milestone":
			e.Milestone, err = decode.Optional[GenericEvent](value)
		case "project":
			e.Project, err = decode.Optional[GenericEvent](value)
		case "project_card":
			e.ProjectCard, err = decode.Optional[GenericEvent](value)
		case "project_column":
			e.ProjectColumn, err = decode.Optional[GenericEvent](value)
		case "pull_request":
			e.PullRequest, err = decode.Optional[PullRequest](value)
		case "pull_request_comment":
			e.PullRequestComment, err = decode.Optional[GenericEvent](value)
		case "pull_request_review":
			e.PullRequestReview, err = decode.Optional[GenericEvent](value)
		case "pull_request_review_comment":
			e.PullRequestReviewComment, err = decode.Optional[GenericEvent](value)
		case "pull_request_target":
			e.PullRequestTarget, err = decode.Optional[PullRequest](value)
		case "push":
			e.Push, err = decode.Optional[Push](value)
		case "registry_package":
			e.RegistryPackage, err = decode.Optional[GenericEvent](value)
		case "release":
			e.Release, err = decode.Optional[GenericEvent](value)
		case "repository_dispatch":
			e.RepositoryDispatch, err = decode.Optional[GenericEvent](value)
		case "schedule":
			e.Schedule, err = decode.Optional[[]Cron](value)
		case "watch":
			e.Watch, err = decode.Optional[GenericEvent](value)
		case "workflow_call":
			e.WorkflowCall, err = decode.Optional[WorkflowCall](value)
		case "workflow_dispatch":
			e.WorkflowDispatch, err = decode.Optional[WorkflowDispatch](value)
		case "workflow_run":
			e.WorkflowRun, err = decode.Optional[WorkflowRun](value)
		}
		if err != nil {
			return fmt.Errorf("trigger %q: %w", key, err)
		}
		return nil
	})
}

// Count returns how many trigger keys were specified at all, i.e. are in
// any state other than Missing. Callers use it to detect workflows whose
// rich trigger mapping names no event.
//
// NOTE: this enumeration must stay in sync with the field list above and
// with the UnmarshalYAML switch; an omitted field silently under-counts.
func (e *Events) Count() int {
	present := []bool{
		e.BranchProtectionRule.IsPresent(),
		e.CheckRun.IsPresent(),
		e.CheckSuite.IsPresent(),
		e.Discussion.IsPresent(),
		e.DiscussionComment.IsPresent(),
		e.IssueComment.IsPresent(),
		e.Issues.IsPresent(),
		e.Label.IsPresent(),
		e.MergeGroup.IsPresent(),
		e.Milestone.IsPresent(),
		e.Project.IsPresent(),
		e.ProjectCard.IsPresent(),
		e.ProjectColumn.IsPresent(),
		e.PullRequest.IsPresent(),
		e.PullRequestComment.IsPresent(),
		e.PullRequestReview.IsPresent(),
		e.PullRequestReviewComment.IsPresent(),
		e.PullRequestTarget.IsPresent(),
		e.Push.IsPresent(),
		e.RegistryPackage.IsPresent(),
		e.Release.IsPresent(),
		e.RepositoryDispatch.IsPresent(),
		e.Schedule.IsPresent(),
		e.Watch.IsPresent(),
		e.WorkflowCall.IsPresent(),
		e.WorkflowDispatch.IsPresent(),
		e.WorkflowRun.IsPresent(),
	}

	count := 0
	for _, p := range present {
		if p {
			count++
		}
	}
	return count
}

// GenericEvent is the filter body shared by most event triggers.
type GenericEvent struct {
	Types decode.OneOrMany[string] `yaml:"types"`
}

// PullRequest is the filter body of `pull_request` and
// `pull_request_target` triggers.
type PullRequest struct {
	Types         []string `yaml:"types"`
	BranchFilters `yaml:",inline"`
	PathFilters   `yaml:",inline"`
}

// Push is the filter body of a `push` trigger.
type Push struct {
	BranchFilters `yaml:",inline"`
	TagFilters    `yaml:",inline"`
	PathFilters   `yaml:",inline"`
}

// Cron is a single `schedule` entry.
type Cron struct {
	Cron string `yaml:"cron"`
}

// WorkflowCall is the body of a `workflow_call` trigger.
type WorkflowCall struct {
	Inputs  map[string]WorkflowCallInput   `yaml:"inputs"`
	Outputs map[string]WorkflowCallOutput  `yaml:"outputs"`
	Secrets map[string]*WorkflowCallSecret `yaml:"secrets"`
}

// WorkflowCallInput is a single input declared by a reusable workflow.
type WorkflowCallInput struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Type        string `yaml:"type"`
}

// WorkflowCallOutput is a single output declared by a reusable workflow.
type WorkflowCallOutput struct {
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
}

// WorkflowCallSecret is a single secret declared by a reusable workflow.
type WorkflowCallSecret struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// WorkflowDispatch is the body of a `workflow_dispatch` trigger.
type WorkflowDispatch struct {
	Inputs map[string]WorkflowDispatchInput `yaml:"inputs"`
}

// WorkflowDispatchInput is a single input of a manually dispatched run.
type WorkflowDispatchInput struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	// Type is one of boolean, choice, number, environment, or string;
	// the default is string.
	Type string `yaml:"type"`
	// Options is only present when Type is choice.
	Options []string `yaml:"options"`
}

// WorkflowRun is the body of a `workflow_run` trigger.
type WorkflowRun struct {
	Workflows     []string `yaml:"workflows"`
	Types         []string `yaml:"types"`
	BranchFilters `yaml:",inline"`
}

// BranchFilters narrows a trigger to matching branches.
type BranchFilters struct {
	Branches       []string `yaml:"branches"`
	BranchesIgnore []string `yaml:"branches-ignore"`
}

// TagFilters narrows a trigger to matching tags.
type TagFilters struct {
	Tags       []string `yaml:"tags"`
	TagsIgnore []string `yaml:"tags-ignore"`
}

// PathFilters narrows a trigger to matching changed paths.
type PathFilters struct {
	Paths       []string `yaml:"paths"`
	PathsIgnore []string `yaml:"paths-ignore"`
}
