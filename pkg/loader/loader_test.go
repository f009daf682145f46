package loader

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// writeTestPhoto writes a small JPEG into the person folder
func writeTestPhoto(t *testing.T, personDir, name string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test photo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(personDir, name), buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test photo: %v", err)
	}
	return buf.Bytes()
}

func setupPhotosDir(t *testing.T) (string, string) {
	t.Helper()
	photosDir := t.TempDir()
	personDir := filepath.Join(photosDir, "person")
	if err := os.MkdirAll(personDir, 0755); err != nil {
		t.Fatalf("failed to create person dir: %v", err)
	}
	return photosDir, personDir
}

func TestLoadPhotos(t *testing.T) {
	photosDir, personDir := setupPhotosDir(t)

	data := writeTestPhoto(t, personDir, "a.jpg", 40, 30)
	writeTestPhoto(t, personDir, "b.jpg", 40, 30)
	writeTestPhoto(t, personDir, "c.PNG", 40, 30) // extension check is case-insensitive

	photos := New(zerolog.Nop()).LoadPhotos(photosDir)

	if len(photos) != 3 {
		t.Fatalf("Expected 3 photos, got %d", len(photos))
	}

	// Filename order is deterministic
	wantOrder := []string{"a.jpg", "b.jpg", "c.PNG"}
	for i, want := range wantOrder {
		if photos[i].Filename != want {
			t.Errorf("Photo %d = %s, expected %s", i, photos[i].Filename, want)
		}
	}

	if photos[0].SizeBytes != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), photos[0].SizeBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(photos[0].Base64)
	if err != nil {
		t.Fatalf("Base64 payload does not decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Expected untouched file bytes without re-encoding options")
	}
}

func TestLoadPhotosSkipsDuplicatesAndNonImages(t *testing.T) {
	photosDir, personDir := setupPhotosDir(t)

	writeTestPhoto(t, personDir, "keep.jpg", 40, 30)
	writeTestPhoto(t, personDir, "img_DUPLICATE.jpg", 40, 30)
	if err := os.WriteFile(filepath.Join(personDir, "notes.txt"), []byte("not a photo"), 0644); err != nil {
		t.Fatalf("failed to write text file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(personDir, "nested.jpg"), 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	photos := New(zerolog.Nop()).LoadPhotos(photosDir)

	if len(photos) != 1 {
		t.Fatalf("Expected 1 photo, got %d", len(photos))
	}
	if photos[0].Filename != "keep.jpg" {
		t.Errorf("Expected keep.jpg, got %s", photos[0].Filename)
	}
}

func TestLoadPhotosMissingPersonDir(t *testing.T) {
	photos := New(zerolog.Nop()).LoadPhotos(t.TempDir())

	if len(photos) != 0 {
		t.Errorf("Expected no photos for missing person dir, got %d", len(photos))
	}
}

func TestLoadPhotosSkipsUnreadableFile(t *testing.T) {
	photosDir, personDir := setupPhotosDir(t)

	writeTestPhoto(t, personDir, "good.jpg", 40, 30)
	// A dangling symlink fails on read, not on the directory listing
	if err := os.Symlink(filepath.Join(personDir, "gone"), filepath.Join(personDir, "bad.jpg")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	photos := New(zerolog.Nop()).LoadPhotos(photosDir)

	if len(photos) != 1 {
		t.Fatalf("Expected the bad file to be skipped, got %d photos", len(photos))
	}
	if photos[0].Filename != "good.jpg" {
		t.Errorf("Expected good.jpg, got %s", photos[0].Filename)
	}
}

func TestLoadPhotosReencodesOversized(t *testing.T) {
	photosDir, personDir := setupPhotosDir(t)

	original := writeTestPhoto(t, personDir, "big.jpg", 400, 200)

	l := NewWithOptions(zerolog.Nop(), Options{MaxDim: 100, Quality: 80})
	photos := l.LoadPhotos(photosDir)

	if len(photos) != 1 {
		t.Fatalf("Expected 1 photo, got %d", len(photos))
	}

	// Size reflects the on-disk file even when the payload is re-encoded
	if photos[0].SizeBytes != int64(len(original)) {
		t.Errorf("Expected on-disk size %d, got %d", len(original), photos[0].SizeBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(photos[0].Base64)
	if err != nil {
		t.Fatalf("Base64 payload does not decode: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(decoded))
	if err != nil {
		t.Fatalf("Re-encoded payload is not JPEG: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("Expected long side 100, got %d", img.Bounds().Dx())
	}
}

func TestLoadPhotosReencodeSkipsSmallImages(t *testing.T) {
	photosDir, personDir := setupPhotosDir(t)

	original := writeTestPhoto(t, personDir, "small.jpg", 50, 40)

	l := NewWithOptions(zerolog.Nop(), Options{MaxDim: 100})
	photos := l.LoadPhotos(photosDir)

	if len(photos) != 1 {
		t.Fatalf("Expected 1 photo, got %d", len(photos))
	}

	decoded, _ := base64.StdEncoding.DecodeString(photos[0].Base64)
	if !bytes.Equal(decoded, original) {
		t.Error("Images within bounds should keep their original bytes")
	}
}
