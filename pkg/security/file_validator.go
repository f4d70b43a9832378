package security

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Extension matching the detected content, with dot
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

// Magic byte signatures double-checking what mimetype reports.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},                         // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
	".odt":  {{0x50, 0x4B, 0x03, 0x04}},
	".txt":  {},
}

// Strict MIME whitelist mapped to the extension stored on disk.
// application/octet-stream is never accepted.
var allowedMIMETypes = map[string]string{
	"application/pdf":           ".pdf",
	"application/msword":        ".doc",
	"application/x-ole-storage": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.oasis.opendocument.text":                                 ".odt",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"text/plain": ".txt",
}

// ValidateFile detects the content type of data and checks it against the
// whitelist. The extension of the original filename is ignored: the stored
// name always carries the extension of what the bytes actually are.
func ValidateFile(data []byte) FileValidationResult {
	var result FileValidationResult
	if len(data) == 0 {
		result.Error = "fichier vide"
		return result
	}

	detected := mimetype.Detect(data)
	mime, _, _ := strings.Cut(detected.String(), ";")
	result.DetectedMIME = mime

	ext, ok := allowedMIMETypes[mime]
	if !ok {
		for parent := detected.Parent(); parent != nil && !ok; parent = parent.Parent() {
			mime, _, _ = strings.Cut(parent.String(), ";")
			ext, ok = allowedMIMETypes[mime]
		}
	}
	if !ok {
		result.Error = "type de fichier non autorisé : " + result.DetectedMIME
		return result
	}
	result.Extension = ext

	if !validateMagicBytes(ext, data) {
		result.Error = "le contenu du fichier ne correspond pas à son type"
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".webp"
}
