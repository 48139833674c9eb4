package entity

import "time"

// MediaKind selects the bucket and URL prefix a media reference lives under.
type MediaKind string

const (
	MediaAvatar  MediaKind = "avatar"
	MediaBackPad MediaKind = "back_pad"
)

// Media is a pointer into object storage; the service never owns the bytes.
type Media struct {
	ID        int64
	MediaURL  string
	CreatedAt time.Time
}
