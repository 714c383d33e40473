// Package uses parses GitHub Actions `uses:` reference strings.
//
// A reference identifies a reusable unit: an action in the same repository
// (a `./` path), an action in another repository (an `owner/repo` slug with
// an optional ref), or a container image (a `docker://` URL). Parsing is a
// state-free, single-pass dispatch over the raw string; resolution against
// a registry or repository is the caller's concern.
package uses

import (
	"fmt"
	"strings"
)

// Uses is a parsed reference. It is one of Local, Repository, or Docker.
type Uses interface {
	isUses()
}

// Local is a same-repository reference, identified by its `./` prefix.
//
// The path is kept verbatim: `@` may legitimately appear inside a local
// path segment and is not a ref separator here.
type Local struct {
	Path string
}

// Repository is an `owner/repo` reference to an action or reusable workflow
// in another repository.
type Repository struct {
	Owner string
	Repo  string

	// Subpath is the path below the repository root, without a leading
	// slash. Empty when the reference points at the repository root.
	Subpath string

	// Ref is whatever follows the last `@` in the reference. Empty when
	// the reference is unpinned.
	Ref string
}

// Docker is a `docker://` container image reference.
type Docker struct {
	// Registry is the image registry host, if one was recognized.
	Registry string

	Image string

	// Tag and Digest are mutually exclusive: an image string is either
	// `image[:tag]` or `image@digest`, never both.
	Tag    string
	Digest string
}

func (Local) isUses()      {}
func (Repository) isUses() {}
func (Docker) isUses()     {}

// Parse parses a `uses:` string into one of the reference kinds.
// Dispatch order, first match wins: `./` prefix, `docker://` prefix,
// `owner/repo` form.
func Parse(s string) (Uses, error) {
	switch {
	case strings.HasPrefix(s, "./"):
		return Local{Path: s}, nil
	case strings.HasPrefix(s, "docker://"):
		return parseDocker(strings.TrimPrefix(s, "docker://")), nil
	default:
		return parseRepository(s)
	}
}

// ParseReusable parses a reference in the reusable-workflow context, where
// additional pinning rules apply: a repository reference must carry a ref,
// a local reference must not (detected by a raw `@` scan, since `@` is
// otherwise legitimate in a local path), and container images are rejected
// outright.
func ParseReusable(s string) (Uses, error) {
	u, err := Parse(s)
	if err != nil {
		return nil, err
	}

	switch ref := u.(type) {
	case Repository:
		if ref.Ref == "" {
			return nil, fmt.Errorf("reusable workflow reference %q must be pinned with a ref", s)
		}
	case Local:
		if strings.Contains(ref.Path, "@") {
			return nil, fmt.Errorf("local reusable workflow reference %q must not be pinned", s)
		}
	case Docker:
		return nil, fmt.Errorf("reusable workflow reference %q cannot be a container image", s)
	}

	return u, nil
}

// parseRepository splits an `owner/repo[/subpath][@ref]` reference.
//
// The ref is whatever follows the LAST `@`: both refs and action paths can
// syntactically contain `@`, so this is a documented best-effort heuristic
// that assumes refs do not.
func parseRepository(s string) (Uses, error) {
	path := s
	var ref string
	if i := strings.LastIndex(s, "@"); i != -1 {
		path, ref = s[:i], s[i+1:]
	}

	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("malformed reference %q: owner/repo slug too short", s)
	}

	r := Repository{Owner: parts[0], Repo: parts[1], Ref: ref}
	if len(parts) == 3 {
		// The subpath may itself contain further slashes; it stays opaque.
		r.Subpath = parts[2]
	}
	return r, nil
}

// parseDocker splits a prefix-stripped `[registry/]image[:tag|@digest]`
// string. The leading segment is a registry only if it is `localhost` or
// contains a dot or colon; that is the standard heuristic for telling a
// registry host apart from an image namespace segment.
func parseDocker(s string) Docker {
	var d Docker

	rest := s
	if i := strings.Index(rest, "/"); i != -1 {
		head := rest[:i]
		if head == "localhost" || strings.ContainsAny(head, ".:") {
			d.Registry = head
			rest = rest[i+1:]
		}
	}

	// A digest suppresses tag parsing entirely; a trailing bare `@` or `:`
	// normalizes to no digest / no tag.
	if i := strings.Index(rest, "@"); i != -1 {
		d.Image = rest[:i]
		d.Digest = rest[i+1:]
		return d
	}
	if i := strings.Index(rest, ":"); i != -1 {
		d.Image = rest[:i]
		d.Tag = rest[i+1:]
		return d
	}

	d.Image = rest
	return d
}
