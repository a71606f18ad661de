package service

import (
	"github.com/gabriel-vasile/mimetype"
)

// Defaults used when the file is absent or unreadable on storage.
const (
	DefaultFileMime        = "application/octet-stream"
	DefaultFileDescription = "Data"
)

// Human-readable names for the formats challenge files commonly come in.
// Anything else falls back to the detected MIME type itself.
var mimeDescriptions = map[string]string{
	"application/pdf":              "PDF document",
	"application/zip":              "Zip archive data",
	"application/x-tar":            "POSIX tar archive",
	"application/gzip":             "gzip compressed data",
	"application/x-7z-compressed":  "7-zip archive data",
	"application/x-rar-compressed": "RAR archive data",
	"application/x-executable":     "ELF executable",
	"application/x-elf":            "ELF executable",
	"application/x-sharedlib":      "ELF shared object",
	"application/vnd.microsoft.portable-executable": "PE executable",
	"application/json":       "JSON text data",
	"application/javascript": "JavaScript source",
	"text/plain":             "ASCII text",
	"text/html":              "HTML document",
	"text/csv":               "CSV text data",
	"image/png":              "PNG image data",
	"image/jpeg":             "JPEG image data",
	"image/gif":              "GIF image data",
	"image/bmp":              "BMP image data",
	"audio/wav":              "WAVE audio",
	"application/vnd.tcpdump.pcap": "pcap capture file",
}

// FileMime returns the MIME type of the file at path, or a generic default
// when the file cannot be read.
func FileMime(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return DefaultFileMime
	}
	// Drop parameters such as "; charset=utf-8"
	mime, _, _ := cutMimeParams(m.String())
	return mime
}

// FileDescription returns a human-readable description of the file's type,
// or "Data" when the file cannot be read.
func FileDescription(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return DefaultFileDescription
	}
	mime, _, _ := cutMimeParams(m.String())
	if desc, ok := mimeDescriptions[mime]; ok {
		return desc
	}
	return mime
}

func cutMimeParams(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
