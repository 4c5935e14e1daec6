// Package util - File loading helpers for models and fixtures.
package util

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/leaf-ai/go-classify/images"
)

// LoadLabels reads a label file with one class name per line. Blank lines and
// lines starting with '#' are skipped; surrounding whitespace is trimmed.
// Label order must match the model's output vector.
//
// Arguments:
// - path: Path to the label file.
//
// Returns:
// - []string: The class names in file order.
// - error: Error if the file cannot be read.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// ImageFile represents an encoded image file on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Format is the container format inferred from the file extension.
	Format images.ImageFormat
}

// formatForExt maps a file extension to a decodable container format.
func formatForExt(ext string) (images.ImageFormat, bool) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return images.FormatJPEG, true
	case ".png":
		return images.FormatPNG, true
	case ".webp":
		return images.FormatWebP, true
	default:
		return "", false
	}
}

// LoadImageFile reads a single encoded image file.
//
// Arguments:
// - path: Path to the image file.
//
// Returns:
// - *ImageFile: The raw bytes plus the format inferred from the extension.
// - error: Error if the file cannot be read or the extension is unknown.
func LoadImageFile(path string) (*ImageFile, error) {
	format, ok := formatForExt(filepath.Ext(path))
	if !ok {
		return nil, os.ErrInvalid
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &ImageFile{Path: path, Data: data, Format: format}, nil
}

// LoadDirectoryImageFiles reads all image files from a directory in directory
// order. Non-image files and subdirectories are skipped.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: One entry per readable image file.
// - error: Error if the directory or any image file cannot be read.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formatForExt(filepath.Ext(entry.Name()))
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, readErr
		}
		files = append(files, ImageFile{Path: path, Data: data, Format: format})
	}
	return files, nil
}
