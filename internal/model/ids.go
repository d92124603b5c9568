package model

import (
	"strconv"
	"strings"

	"github.com/rs/xid"
)

const (
	// LocalPrefix marks identifiers synthesised on the client.
	LocalPrefix = "local_"
	// SentinelID is what editors pass when there is no resume yet.
	SentinelID = "default_resume"
)

// NewLocalID returns a fresh client-side identifier, e.g. "local_cv37rs3pp9olc6atsptg".
//
// xid ids are 20 URL-safe characters and sort by creation time, so items added
// in one session stay in insertion order when compared by id.
func NewLocalID() string {
	return LocalPrefix + xid.New().String()
}

// IsLocalID reports whether id names a draft with no server identity.
// The empty id counts as local.
func IsLocalID(id string) bool {
	return id == "" || strings.HasPrefix(id, LocalPrefix)
}

// ParseServerID parses a server identifier. Only positive base-10 integers in
// canonical form are valid, so "+7", " 7" and "007" are rejected along with
// the sentinel and local ids. Callers compare ids as strings after a
// successful parse.
func ParseServerID(id string) (int64, bool) {
	if id == "" || id == SentinelID {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 || FormatServerID(n) != id {
		return 0, false
	}
	return n, true
}

// FormatServerID is the inverse of ParseServerID.
func FormatServerID(id int64) string {
	return strconv.FormatInt(id, 10)
}
