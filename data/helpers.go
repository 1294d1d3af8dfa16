package data

import (
	"time"

	"github.com/google/uuid"
)

// NewStat creates stat metadata for freshly stored content.
// The content type derives from the key and the etag is a fresh id.
func NewStat(key string, size int64) *ResourceStat {
	return &ResourceStat{
		Key:         key,
		Size:        size,
		ModifyTime:  time.Now(),
		ContentType: GetMIMEType(key),
		ETag:        genStatID(),
	}
}

func genStatID() string {
	return uuid.Must(uuid.NewV7()).String()
}
