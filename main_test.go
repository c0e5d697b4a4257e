package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBuildVersion(t *testing.T) {
	restore := func(version, sha string) {
		Version = version
		CommitSHA = sha
	}
	defer restore(Version, CommitSHA)

	restore("", "")
	assert.Equal(t, buildVersion(), "dev")

	restore("1.2.3", "")
	assert.Equal(t, buildVersion(), "1.2.3")

	restore("1.2.3", "abc1234")
	assert.Equal(t, buildVersion(), "1.2.3 (abc1234)")
}
