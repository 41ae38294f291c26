package enrich

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type UnsplashImages struct {
	baseURL string
}

func NewUnsplashImages(baseURL string) *UnsplashImages {
	return &UnsplashImages{baseURL: baseURL}
}

// ImageRef builds a random-image URL for the text. The URL is not fetched,
// so it may not resolve.
func (u *UnsplashImages) ImageRef(_ context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("text is required")
	}
	return u.baseURL + "?" + url.QueryEscape(text), nil
}
