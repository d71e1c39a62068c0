package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() {
		Version, Commit = origVersion, origCommit
	})

	Version, Commit = "dev", "abc1234"
	if !IsDevBuild() {
		t.Error("IsDevBuild() = false for a dev build")
	}
	if got := String(); got != "dev (commit abc1234)" {
		t.Errorf("String() = %q, want %q", got, "dev (commit abc1234)")
	}

	Version = "1.2.0"
	if IsDevBuild() {
		t.Error("IsDevBuild() = true for a release build")
	}
	if got := String(); got != "1.2.0" {
		t.Errorf("String() = %q, want %q", got, "1.2.0")
	}
}
