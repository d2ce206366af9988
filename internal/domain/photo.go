package domain

import "io"

// PhotoUpload is an uploaded contact photo: the client-supplied filename
// and the raw bytes. The filename is untrusted and must be sanitized
// before it is used as a storage key.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

// PhotoStore persists uploaded photos and returns the relative key the
// registration row references.
type PhotoStore interface {
	Save(key string, content io.Reader) error
	Remove(key string) error
}
