package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/reqkit/errors"
)

// resolveURL parses base and appends each non-empty segment to its path.
// The base path keeps its original escaping, so an encoded "%2F" stays a
// single segment.
func resolveURL(base string, segments ...string) (*url.URL, error) {
	if base == "" {
		return nil, errors.InvalidBaseURL(base, fmt.Errorf("base URL is empty"))
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.InvalidBaseURL(base, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.InvalidBaseURL(base, fmt.Errorf("base URL must have a scheme and host"))
	}

	p := u.EscapedPath()
	for _, seg := range segments {
		p = appendSegment(p, escapeSegment(seg))
	}
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return nil, errors.InvalidBaseURL(base, err)
	}
	u.Path = unescaped
	u.RawPath = p
	return u, nil
}

// escapeSegment escapes seg the way net/url escapes a path, keeping "/".
func escapeSegment(seg string) string {
	return (&url.URL{Path: seg}).EscapedPath()
}

// appendSegment joins seg onto p with exactly one "/" between them. The
// segment is otherwise left as is: no cleaning of "..", "." or inner slashes.
func appendSegment(p, seg string) string {
	if seg == "" {
		return p
	}
	switch hasSlash, segSlash := strings.HasSuffix(p, "/"), strings.HasPrefix(seg, "/"); {
	case hasSlash && segSlash:
		return p + seg[1:]
	case hasSlash || segSlash:
		return p + seg
	default:
		return p + "/" + seg
	}
}
