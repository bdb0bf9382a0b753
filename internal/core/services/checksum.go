package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/reliefkit/kbcat/internal/logger"
)

// Checksum returns the hex-encoded SHA-256 of the full file content.
// The hash covers the raw byte stream, not the extracted text, so a
// formatting-only re-save is still detected as a change.
//
// On read error it returns the empty string, which never matches a
// stored checksum and therefore forces reprocessing rather than a
// silent skip.
func Checksum(path string) string {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("checksum %s: %v", path, err)
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		logger.Warn("checksum %s: %v", path, err)
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
