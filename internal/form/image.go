package form

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedImage is returned for files that are not JPEG or PNG images.
var ErrUnsupportedImage = errors.New("only .jpg and .png images are supported")

// ImagePicker accepts image files for the product form.
type ImagePicker struct {
	extensions map[string]string
}

// NewImagePicker returns a picker restricted to .jpg and .png files.
func NewImagePicker() *ImagePicker {
	return &ImagePicker{
		extensions: map[string]string{
			".jpg": "image/jpeg",
			".png": "image/png",
		},
	}
}

// Filter describes the accepted files, e.g. for a prompt.
func (p *ImagePicker) Filter() string {
	return "Images (*.jpg, *.png)"
}

// Check verifies that path names an existing image whose content matches
// its extension, and returns the cleaned absolute path.
func (p *ImagePicker) Check(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("image path is required")
	}
	want, ok := p.extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedImage)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if !mtype.Is(want) {
		return "", fmt.Errorf("%s has content type %s: %w", filepath.Base(path), mtype.String(), ErrUnsupportedImage)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}
