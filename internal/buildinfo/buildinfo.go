// Package buildinfo holds the values stamped in at link time, e.g.
//
//	go build -ldflags "-X till/internal/buildinfo.Version=v1.2.0 -X till/internal/buildinfo.Commit=abc123"
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func stamped(v string) bool { return v != "" && v != "unknown" && v != "dev" }

// Short names the build for the window title: the version when stamped, else the commit.
func Short() string {
	switch {
	case stamped(Version):
		return Version
	case stamped(Commit):
		return Commit
	}
	return "dev"
}

// Line describes the build for the startup log, e.g. "v1.2.0 commit=abc123 date=2026-10-01".
func Line() string {
	var b strings.Builder
	b.WriteString(Short())
	if stamped(Commit) && Short() != Commit {
		b.WriteString(" commit=" + Commit)
	}
	if stamped(Date) {
		b.WriteString(" date=" + Date)
	}
	return b.String()
}
