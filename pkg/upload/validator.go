// Package upload validates candidature documents before they are stored.
// Validation is content-based: the extension must be whitelisted and the
// leading bytes must match the magic signature of the claimed type.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize caps uploaded documents at 10 MiB.
const MaxFileSize = 10 << 20

var ErrFileTooLarge = fmt.Errorf("file exceeds the %d MiB limit", MaxFileSize>>20)

// Magic byte signatures per allowed extension.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
	".txt":  {},                                                                           // no magic bytes for plain text
}

// Validate checks the file name and content of an uploaded document.
func Validate(filename string, data []byte) error {
	if len(data) == 0 {
		return errors.New("file is empty")
	}
	if len(data) > MaxFileSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	signatures, allowed := magicBytes[ext]
	if !allowed {
		return fmt.Errorf("file type %q is not allowed", ext)
	}

	if len(signatures) == 0 {
		return nil
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return nil
		}
	}
	return fmt.Errorf("file content does not match its %q extension", ext)
}
