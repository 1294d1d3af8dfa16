package data

import (
	"encoding/json"
	"time"
)

// ResourceStat represents a low-level description of a resolvable resource.
// It is used by fetchers and catalogs to report metadata without opening
// the resource content.
type ResourceStat struct {
	// Relative key within the origin
	Key string `json:"key"`

	// Size in bytes (-1 if the origin cannot report it)
	Size int64 `json:"size"`

	ModifyTime time.Time `json:"modify_time"`

	// Content MIME type
	ContentType ContentType `json:"content_type"`

	ETag string `json:"etag"`
}

// Marshal provides JSON serialization for ResourceStat.
func (rs *ResourceStat) Marshal() ([]byte, error) {
	return json.Marshal(rs)
}

// Unmarshal provides JSON deserialization for ResourceStat.
func (rs *ResourceStat) Unmarshal(data []byte) error {
	return json.Unmarshal(data, &rs)
}
