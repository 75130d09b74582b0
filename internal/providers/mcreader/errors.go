package mcreader

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument   = errors.New("malformed document")
	ErrCloudflareChallenge = errors.New("cloudflare bypass required")
)

// Extraction targets reported by MalformedDocumentError.
const (
	TargetMangaDetail  = "manga detail"
	TargetChapterList  = "chapter list"
	TargetChapterPages = "chapter pages"
	TargetSearch       = "search"
	TargetBrowse       = "browse"
	TargetTags         = "tags"
)

type MalformedDocumentError struct {
	Target string
	Anchor string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %s not found in %s page", ErrMalformedDocument, e.Anchor, e.Target)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func malformed(target, anchor string) error {
	return &MalformedDocumentError{Target: target, Anchor: anchor}
}

type CloudflareError struct {
	Status int
	URL    string
}

func (e *CloudflareError) Error() string {
	return fmt.Sprintf("%s (HTTP %d): open %s in the host and complete the bypass", ErrCloudflareChallenge, e.Status, e.URL)
}

func (e *CloudflareError) Is(target error) bool {
	return target == ErrCloudflareChallenge
}
