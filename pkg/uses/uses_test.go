package uses

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Uses
		wantErr bool
	}{
		{
			name:  "repository with ref",
			input: "actions/checkout@v4",
			want:  Repository{Owner: "actions", Repo: "checkout", Ref: "v4"},
		},
		{
			name:  "repository with subpath and ref",
			input: "actions/aws/ec2@abcd",
			want:  Repository{Owner: "actions", Repo: "aws", Subpath: "ec2", Ref: "abcd"},
		},
		{
			name:  "repository with deep subpath",
			input: "octo/tools/ci/setup/node@v1",
			want:  Repository{Owner: "octo", Repo: "tools", Subpath: "ci/setup/node", Ref: "v1"},
		},
		{
			name:  "repository without ref",
			input: "actions/checkout",
			want:  Repository{Owner: "actions", Repo: "checkout"},
		},
		{
			name:  "ref split happens on the last at-sign",
			input: "octo/repo/sub@dir@v2",
			want:  Repository{Owner: "octo", Repo: "repo", Subpath: "sub@dir", Ref: "v2"},
		},
		{
			name:    "slug too short",
			input:   "checkout@v4",
			wantErr: true,
		},
		{
			name:  "docker image with tag",
			input: "docker://alpine:3.8",
			want:  Docker{Image: "alpine", Tag: "3.8"},
		},
		{
			name:  "docker registry with namespaced image",
			input: "docker://ghcr.io/foo/alpine",
			want:  Docker{Registry: "ghcr.io", Image: "foo/alpine"},
		},
		{
			name:  "docker image with digest",
			input: "docker://alpine@sha",
			want:  Docker{Image: "alpine", Digest: "sha"},
		},
		{
			name:  "docker localhost registry with port",
			input: "docker://localhost:5000/app:dev",
			want:  Docker{Registry: "localhost:5000", Image: "app", Tag: "dev"},
		},
		{
			name:  "docker namespace segment is not a registry",
			input: "docker://library/alpine",
			want:  Docker{Image: "library/alpine"},
		},
		{
			name:  "docker trailing bare colon normalizes to no tag",
			input: "docker://alpine:",
			want:  Docker{Image: "alpine"},
		},
		{
			name:  "docker trailing bare at normalizes to no digest",
			input: "docker://alpine@",
			want:  Docker{Image: "alpine"},
		},
		{
			name:  "local path is kept verbatim",
			input: "./.github/actions/x@weird",
			want:  Local{Path: "./.github/actions/x@weird"},
		},
		{
			name:  "local path",
			input: "./actions/setup",
			want:  Local{Path: "./actions/setup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseReusable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "pinned repository reference", input: "owner/repo/path.yml@abcd", wantErr: false},
		{name: "unpinned repository reference", input: "owner/repo/path.yml", wantErr: true},
		{name: "trailing bare at counts as unpinned", input: "owner/repo/path.yml@", wantErr: true},
		{name: "pinned local reference", input: "./path.yml@abcd", wantErr: true},
		{name: "unpinned local reference", input: "./.github/workflows/ci.yml", wantErr: false},
		{name: "docker reference is always rejected", input: "docker://alpine", wantErr: true},
		{name: "malformed slug", input: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReusable(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseReusable(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
