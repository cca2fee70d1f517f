package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsPDF(t *testing.T) {
	data := append([]byte("%PDF-1.7"), make([]byte, 64)...)
	assert.NoError(t, Validate("dossier.pdf", data))
}

func TestValidateAcceptsPlainText(t *testing.T) {
	assert.NoError(t, Validate("notes.txt", []byte("motivation letter")))
}

func TestValidateRejectsUnknownExtension(t *testing.T) {
	err := Validate("payload.exe", []byte{0x4D, 0x5A})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestValidateRejectsMismatchedContent(t *testing.T) {
	// claims PDF, contains PNG bytes
	err := Validate("fake.pdf", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	assert.Error(t, Validate("empty.pdf", nil))
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	big := make([]byte, MaxFileSize+1)
	copy(big, []byte("%PDF"))
	assert.ErrorIs(t, Validate("big.pdf", big), ErrFileTooLarge)
}
