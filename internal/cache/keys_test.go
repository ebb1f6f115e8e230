package cache

import "testing"

func TestVersionKey(t *testing.T) {
	got := VersionKey("owner-1")
	want := "jotion:documents:ver:owner-1"
	if got != want {
		t.Errorf("VersionKey = %q, want %q", got, want)
	}
}

func TestListKey(t *testing.T) {
	got := ListKey("owner-1", 7, "sidebar:root")
	want := "jotion:documents:owner-1:7:sidebar:root"
	if got != want {
		t.Errorf("ListKey = %q, want %q", got, want)
	}

	// A version bump must produce a distinct key so stale entries are
	// never read again
	if bumped := ListKey("owner-1", 8, "sidebar:root"); bumped == got {
		t.Error("version bump did not change the key")
	}
}

func TestScopes(t *testing.T) {
	if got := SidebarScope(nil); got != "sidebar:root" {
		t.Errorf("SidebarScope(nil) = %q, want sidebar:root", got)
	}

	parentID := "2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d"
	if got := SidebarScope(&parentID); got != "sidebar:"+parentID {
		t.Errorf("SidebarScope(parent) = %q", got)
	}

	if SearchScope() == SidebarScope(nil) {
		t.Error("search and sidebar scopes must not collide")
	}
}
