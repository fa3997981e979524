package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sunshineplan/imgconv"

	"github.com/wearly/tryonbot/internal/domain"
)

type mediaDownloader interface {
	ResolveURL(messageSID string) (string, error)
	Download(url string) ([]byte, error)
}

// ImageFetcher retrieves inbound media and stores it locally. Whatever the
// sender uploaded is re-encoded to JPEG so inference input is uniform.
type ImageFetcher struct {
	media mediaDownloader
	dir   string
}

func NewImageFetcher(media mediaDownloader, dir string) *ImageFetcher {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ImageFetcher{media: media, dir: dir}
}

// Fetch resolves the media reference, downloads the bytes and writes one
// normalized JPEG to a fresh temp file. The caller owns cleanup.
func (f *ImageFetcher) Fetch(ctx context.Context, ref domain.MediaRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	url := ref.URL
	if url == "" {
		if ref.MessageSID == "" {
			return "", fmt.Errorf("%w: %v", domain.ErrFetch, domain.ErrNoMedia)
		}
		resolved, err := f.media.ResolveURL(ref.MessageSID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
		}
		url = resolved
	}

	data, err := f.media.Download(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	img, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", domain.ErrFetch, err)
	}

	path := filepath.Join(f.dir, "tryon-"+uuid.NewString()+".jpg")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}

	if err := imgconv.Write(file, img, &imgconv.FormatOption{Format: imgconv.JPEG}); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: encode jpeg: %v", domain.ErrFetch, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp image: %w", err)
	}

	return path, nil
}
