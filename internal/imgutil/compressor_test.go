package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	data := encodeTestPNG(t, 64, 64)

	out, err := CompressToJPEG(data, DefaultQuality)
	if err != nil {
		t.Fatalf("CompressToJPEG: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(out)); err != nil || format != "jpeg" {
		t.Fatalf("output not decodable jpeg: format=%q err=%v", format, err)
	}
}

func TestCompressToJPEGRejectsGarbage(t *testing.T) {
	if _, err := CompressToJPEG([]byte("not an image"), DefaultQuality); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestShrinkIfLarger(t *testing.T) {
	data := encodeTestPNG(t, 128, 128)

	t.Run("below threshold untouched", func(t *testing.T) {
		out, mime := ShrinkIfLarger(data, "image/png", len(data)+1)
		if !bytes.Equal(out, data) || mime != "image/png" {
			t.Fatalf("payload below threshold was modified")
		}
	})

	t.Run("above threshold recompressed", func(t *testing.T) {
		out, mime := ShrinkIfLarger(data, "image/png", 16)
		if mime != "image/jpeg" {
			t.Fatalf("mime = %q, want image/jpeg", mime)
		}
		if len(out) >= len(data) {
			t.Fatalf("recompression did not shrink payload")
		}
	})

	t.Run("undecodable payload kept", func(t *testing.T) {
		raw := []byte("opaque-bytes")
		out, mime := ShrinkIfLarger(raw, "image/heic", 4)
		if !bytes.Equal(out, raw) || mime != "image/heic" {
			t.Fatalf("undecodable payload was modified")
		}
	})
}
