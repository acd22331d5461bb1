package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/St1cky1/user-service/internal/entity"
)

func makeImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeImage(w, h), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, makeImage(w, h)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeProducesFixedSquarePNG(t *testing.T) {
	n := NewNormalizer(DefaultEdge)

	inputs := map[string][]byte{
		"wide jpeg":  encodeJPEG(t, 300, 100),
		"tall png":   encodePNG(t, 40, 500),
		"small png":  encodePNG(t, 10, 10),
		"square jpg": encodeJPEG(t, 250, 250),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := n.Normalize(data)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("Expected decodable output, got %v", err)
			}
			if format != "png" {
				t.Errorf("Expected png, got %s", format)
			}
			if cfg.Width != 250 || cfg.Height != 250 {
				t.Errorf("Expected 250x250, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := NewNormalizer(DefaultEdge)
	data := encodeJPEG(t, 300, 100)

	first, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := n.Normalize(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("Expected identical output for identical input")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	n := NewNormalizer(DefaultEdge)

	_, err := n.Normalize([]byte("definitely not an image"))

	var decodeErr *entity.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %v", err)
	}
}

func TestNewNormalizerDefaultsEdge(t *testing.T) {
	out, err := NewNormalizer(0).Normalize(encodePNG(t, 20, 30))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Expected PNG output, got %v", err)
	}
	if cfg.Width != DefaultEdge || cfg.Height != DefaultEdge {
		t.Errorf("Expected %dx%d, got %dx%d", DefaultEdge, DefaultEdge, cfg.Width, cfg.Height)
	}
}
