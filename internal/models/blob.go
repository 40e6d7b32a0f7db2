package models

import "io"

type UploadInput struct {
	File        io.Reader
	Key         string
	Bucket      string
	ContentType string
	Size        int64
}

// PresignedPost is a single-use, time-boxed browser upload credential.
type PresignedPost struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}
