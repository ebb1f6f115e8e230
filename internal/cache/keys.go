package cache

import "fmt"

const (
	// keyPrefix namespaces every cache key
	keyPrefix = "jotion:documents:"

	// scopeSearch is the listing scope for the searchable candidate set
	scopeSearch = "search"
)

// VersionKey returns the key holding an owner's cache generation counter.
// Writes INCR it, which orphans every previously written listing key for
// that owner; the TTL on listing keys cleans the orphans up.
func VersionKey(ownerID string) string {
	return keyPrefix + "ver:" + ownerID
}

// ListKey returns the key for one cached listing of an owner at a given
// cache generation.
func ListKey(ownerID string, version int64, scope string) string {
	return fmt.Sprintf("%s%s:%d:%s", keyPrefix, ownerID, version, scope)
}

// SidebarScope names the sidebar listing under one parent (or root).
func SidebarScope(parentID *string) string {
	if parentID == nil {
		return "sidebar:root"
	}
	return "sidebar:" + *parentID
}

// SearchScope names the searchable-candidates listing.
func SearchScope() string {
	return scopeSearch
}
