package constants

import "strings"

// Format is the canonical document format for an uploaded report.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedMIMETypes holds the upload content types the service accepts.
var AllowedMIMETypes = map[string]Format{
	"application/pdf": PDF,
	"image/jpeg":      IMAGE,
	"image/jpg":       IMAGE,
	"image/png":       IMAGE,
}

// AllowedExtensions holds the default allowed file extensions for report uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its Format; "" if unsupported.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}

// MapMIMEToFormat maps a declared or sniffed content type to its Format; "" if unsupported.
func MapMIMEToFormat(mime string) Format {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return AllowedMIMETypes[strings.ToLower(strings.TrimSpace(mime))]
}
