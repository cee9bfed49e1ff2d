package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const maxImageBytes = 5 << 20

var (
	ErrImageTooLarge = errors.New("cover image must be smaller than 5 MB")
	ErrImageType     = errors.New("cover image must be a JPEG or PNG")
	ErrImageSource   = errors.New("cover image must be an http(s) URL or a data URI")
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// toDataURI checks that data is a small enough JPEG or PNG and encodes it
// as a data URI for storage.
func toDataURI(data []byte) (string, error) {
	if len(data) >= maxImageBytes {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", ErrImageType
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// coverImageFromUpload reads a multipart file into a data URI.
func coverImageFromUpload(fh *multipart.FileHeader) (string, error) {
	if fh.Size >= maxImageBytes {
		return "", ErrImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return toDataURI(data)
}

// normalizeCoverImage accepts a remote URL as is and re-validates an inline
// data URI by its decoded content rather than its declared type.
func normalizeCoverImage(src string) (string, error) {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return src, nil
	case strings.HasPrefix(lower, "data:"):
		comma := strings.IndexByte(src, ',')
		if comma < 0 || !strings.HasSuffix(strings.ToLower(src[:comma]), ";base64") {
			return "", ErrImageSource
		}
		payload := src[comma+1:]
		if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes+2 {
			return "", ErrImageTooLarge
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", ErrImageSource
		}
		return toDataURI(data)
	}
	return "", ErrImageSource
}
