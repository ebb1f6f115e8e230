package config

import "time"

const (
	// MaxTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// DefaultMaxTraversalDepth bounds the recursive archive/restore walk.
	// A tree deeper than this indicates a pathological hierarchy (or a
	// corrupted parent chain) and the traversal aborts instead of
	// recursing without bound.
	DefaultMaxTraversalDepth = 64

	// DefaultCacheTTL is how long cached sidebar/search listings stay
	// fresh. Writes bump the owner's cache version, so the TTL only
	// bounds staleness across processes that missed an invalidation.
	DefaultCacheTTL = 30 * time.Second
)
