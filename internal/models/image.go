package models

// UnknownTimestamp is shown for images whose filename is not a capture timestamp.
const UnknownTimestamp = "Unknown"

// ImageRecord describes a stored image. It is derived from the filesystem on
// every query and never persisted.
type ImageRecord struct {
	Filename string  `json:"filename"`
	Time     string  `json:"timestamp"`
	ModTime  float64 `json:"mtime"`
}
