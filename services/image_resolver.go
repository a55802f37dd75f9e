package services

import (
	"context"
	"log"

	"github.com/Gelou69/Food-OrderomgHub/utils"
)

// ImageResolver turns stored image references into display URLs.
//
// A reference that is already fully qualified (http/https) or inline
// (data URI) resolves to itself. Anything else is treated as a storage key
// and probed against the configured buckets in order; the first bucket that
// holds the object wins. A reference that resolves nowhere yields "", which
// callers render as "no image". Resolution is idempotent.
type ImageResolver struct {
	storage StorageInterface
}

// NewImageResolver creates an image resolver over the given storage backend
func NewImageResolver(storage StorageInterface) *ImageResolver {
	return &ImageResolver{storage: storage}
}

// Resolve resolves a single image reference to a display URL, or "" when the
// reference is empty or cannot be located. Probe failures on individual
// buckets are logged and treated as misses, never as fatal errors.
func (r *ImageResolver) Resolve(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	if utils.IsAbsoluteImageRef(ref) {
		return ref
	}

	key := utils.NormalizeStorageKey(ref)
	if key == "" {
		return ""
	}

	for _, bucket := range r.storage.Buckets() {
		exists, err := r.storage.KeyExists(ctx, bucket, key)
		if err != nil {
			// A failed probe means "try the next location"
			log.Printf("image probe failed for %s/%s: %v", bucket, key, err)
			continue
		}
		if exists {
			return r.storage.PublicURL(bucket, key)
		}
	}

	return ""
}
