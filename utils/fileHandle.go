package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsAllowedImage reports whether the uploaded file name carries an image extension we serve.
func IsAllowedImage(filename string) bool {
	return allowedImageExt[strings.ToLower(filepath.Ext(filename))]
}

// SaveUploadedFile stores the upload under destDir/subDir with a random name and
// returns the path relative to destDir.
func SaveUploadedFile(file *multipart.FileHeader, destDir, subDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := filepath.Join(destDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(dir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subDir, newFilename)), nil
}

// GetFileURL maps a stored relative path to the public URL it is served under
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return "/uploads/" + filePath
}
