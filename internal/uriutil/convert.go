// Package uriutil converts between file:// URIs and slash-separated paths.
//
// Program paths are always forward-slash paths, on Windows as well, so the
// import resolver can use package path. A Windows drive path keeps its
// letter: file:///C:/proj/a.ts becomes C:/proj/a.ts.
package uriutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI converts a path into a file URI, percent-encoding each segment.
func PathToURI(p string) string {
	if abs, err := filepath.Abs(p); err == nil && !isSlashAbs(p) {
		p = abs
	}
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if isDriveSegment(i, seg) {
			continue
		}
		segments[i] = url.PathEscape(seg)
	}
	return "file://" + strings.Join(segments, "/")
}

// URIToPath converts a file URI into a slash-separated path. Strings that are
// not file URIs are returned with only the scheme prefix stripped.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return trimDrivePrefix(filepath.ToSlash(strings.TrimPrefix(uri, "file://")))
	}
	p := parsed.Path
	if parsed.Host != "" {
		p = "//" + parsed.Host + p
	}
	return trimDrivePrefix(p)
}

// IsFileURI reports whether uri has the file scheme.
func IsFileURI(uri string) bool {
	return strings.HasPrefix(uri, "file:")
}

func trimDrivePrefix(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}

func isDriveSegment(i int, seg string) bool {
	return i == 1 && len(seg) == 2 && seg[1] == ':'
}

func isSlashAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}
