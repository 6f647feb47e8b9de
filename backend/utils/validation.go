package utils

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/internal/domain/errs"
)

// ValidateUpload checks an uploaded file against the configured type and
// size allow-lists. It runs before any byte is written to storage.
func ValidateUpload(cfg ascendance.StorageConfig, filename, contentType string, size int64) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !contains(cfg.AllowedTypes, mediaType) {
		return &errs.UnsupportedMediaError{ContentType: contentType, Allowed: cfg.AllowedTypes}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(cfg.AllowedExtensions, ext) {
		return &errs.UnsupportedMediaError{ContentType: contentType + " (" + ext + ")", Allowed: cfg.AllowedExtensions}
	}

	if cfg.MaxUploadSize > 0 && size > cfg.MaxUploadSize {
		return &errs.PayloadTooLargeError{Size: size, Limit: cfg.MaxUploadSize}
	}
	return nil
}

// SanitizeFilename returns the base name of a client supplied file name.
// It returns "" when nothing usable is left.
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
