package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	_ "image/jpeg"
	_ "image/png"
)

// Asset keys used by the renderer.
const (
	AssetLogo      = "logo"
	AssetStamp     = "stamp"
	AssetSignature = "signature"
)

// Asset is a decoded image ready for painting. Width and height are the
// image's natural size in millimetres at 96 dpi.
type Asset struct {
	Key      string
	Data     []byte
	Format   string // "PNG" or "JPG"
	WidthMM  float64
	HeightMM float64
}

// AssetSet maps asset keys to loaded assets. Missing keys mean the asset was
// absent or failed to load; layout treats its space as zero.
type AssetSet map[string]Asset

// LoadAssets reads and decodes the referenced image files concurrently,
// before the synchronous layout pass begins (image dimensions affect header
// height). Individual failures are absorbed: the asset is logged and
// omitted, never aborting the render.
func LoadAssets(ctx context.Context, refs map[string]string) AssetSet {
	set := AssetSet{}
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for key, path := range refs {
		if path == "" {
			continue
		}
		key, path := key, path
		g.Go(func() error {
			asset, err := loadAsset(key, path)
			if err != nil {
				slog.Warn("omitting image asset",
					"error", &AssetLoadError{Key: key, Path: path, Err: err})
				return nil
			}
			mu.Lock()
			set[key] = asset
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return set
}

func loadAsset(key, path string) (Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("decoding image: %w", err)
	}

	var pdfFormat string
	switch format {
	case "png":
		pdfFormat = "PNG"
	case "jpeg":
		pdfFormat = "JPG"
	default:
		return Asset{}, fmt.Errorf("unsupported image format %q", format)
	}

	const mmPerPixel = 25.4 / 96.0
	return Asset{
		Key:      key,
		Data:     data,
		Format:   pdfFormat,
		WidthMM:  float64(cfg.Width) * mmPerPixel,
		HeightMM: float64(cfg.Height) * mmPerPixel,
	}, nil
}

// Ref returns an ImageRef scaled to fit within maxW x maxH, preserving the
// aspect ratio, or nil when the asset is absent.
func (s AssetSet) Ref(key string, maxW, maxH float64) *ImageRef {
	asset, ok := s[key]
	if !ok || asset.WidthMM <= 0 || asset.HeightMM <= 0 {
		return nil
	}
	w, h := asset.WidthMM, asset.HeightMM
	if w > maxW {
		h *= maxW / w
		w = maxW
	}
	if h > maxH {
		w *= maxH / h
		h = maxH
	}
	return &ImageRef{Key: key, W: w, H: h}
}
