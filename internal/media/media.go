// Package media converts uploaded images into base64 data URIs that are
// stored inline on products, brands, blog posts and wallpapers.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrTooLarge        = errors.New("image is too large")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmpty           = errors.New("image is empty")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Encode reads at most maxBytes from r, sniffs the content type and returns
// a data URI.
func Encode(r io.Reader, maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	if len(data) == 0 {
		return "", ErrEmpty
	}

	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// IsDataURI reports whether s looks like an inline image.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/") && strings.Contains(s, ";base64,")
}

// IsImageRef accepts inline images and absolute http(s) URLs or site paths.
func IsImageRef(s string) bool {
	return IsDataURI(s) ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "/")
}

// Decode splits a data URI into its content type and raw bytes.
func Decode(uri string) (string, []byte, error) {
	if !IsDataURI(uri) {
		return "", nil, ErrUnsupportedType
	}

	header, payload, _ := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	contentType := strings.TrimSuffix(header, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	return contentType, data, nil
}
