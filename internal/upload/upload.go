package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxSize is the largest accepted résumé, in bytes (10 MiB).
	MaxSize int64 = 10 << 20
)

// AllowedExtensions lists accepted extensions, lower-cased and without the dot.
var AllowedExtensions = []string{"pdf", "doc", "docx", "txt"}

// File is a candidate résumé selected by the user. It only carries metadata:
// nothing in this package opens or reads the file contents.
type File struct {
	Name string
	Size int64
	// Path is empty for files that did not come from the local filesystem.
	Path string
}

// Stat builds a candidate File from a local path.
func Stat(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, fmt.Errorf("file path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}

	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	return File{
		Name: info.Name(),
		Size: info.Size(),
		Path: path,
	}, nil
}

// Extension returns the lower-cased part of the name after the final dot.
// Names without a dot have no extension.
func (f File) Extension() string {
	name := filepath.Base(strings.TrimSpace(f.Name))
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return ""
	}

	return strings.ToLower(name[idx+1:])
}

// Reason tells why a file was rejected.
type Reason string

const (
	ReasonTooLarge        Reason = "TooLarge"
	ReasonUnsupportedType Reason = "UnsupportedType"
)

// ValidationError is returned when a candidate file fails a pre-flight rule.
type ValidationError struct {
	Reason Reason
	File   File
	Rule   string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("File is too large. Maximum size is %dMB.", MaxSize>>20)
	case ReasonUnsupportedType:
		return "Invalid file type. Please upload PDF, DOC, DOCX, or TXT files."
	default:
		return fmt.Sprintf("file %q rejected: %s", e.File.Name, e.Reason)
	}
}
