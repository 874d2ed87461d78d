package utils

import (
	"path/filepath"
	"strings"
)

//SupportAudioExt checks if audio ext is supported
func SupportAudioExt(ext string) bool {
	switch ext {
	case ".wav", ".mp3", ".mp4", ".m4a", ".ogg", ".webm", ".wma", ".aac", ".flac":
		return true
	}
	return false
}

// AudioExt returns lower case extension of an uploaded file name,
// empty string means no extension
func AudioExt(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// StrPtr returns nil for an empty string or a pointer to the copy of s
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FromStrPtr returns the value or empty string for nil
func FromStrPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
