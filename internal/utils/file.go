package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/menta2k/smart-crop/pkg/types"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// GetFileExtension returns the lower-cased file extension without the dot
func GetFileExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ListImageFiles returns the files under dir accepted by keep, sorted by path.
// A plain file path is returned as is.
func ListImageFiles(dir string, keep func(path string) bool) ([]string, error) {
	if FileExists(dir) {
		return []string{dir}, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// CropFilename names the index-th output of a batch, e.g. "007_800x600.jpg".
func CropFilename(outputDir string, index int, size types.Size, format string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%03d_%s.%s", index, size, normalizeFormat(format)))
}

// GenerateOutputFilename names the crop of inputFile at size, keeping the
// input's base name between prefix and suffix.
func GenerateOutputFilename(inputFile, outputDir, prefix, suffix string, size types.Size, format string) string {
	base := filepath.Base(inputFile)
	name := SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))

	if format == "" {
		format = GetFileExtension(inputFile)
	}

	outputName := fmt.Sprintf("%s%s_%s%s.%s", prefix, name, size, suffix, normalizeFormat(format))
	return filepath.Join(outputDir, outputName)
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(format); f {
	case "", "jpeg":
		return "jpg"
	default:
		return f
	}
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SanitizeFilename replaces characters that are invalid in file names
func SanitizeFilename(filename string) string {
	result := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, filename)

	return strings.Trim(result, " .")
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
