package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/ripple/pkg/ripple"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
}

func TestImageCachesDecodedImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pond.png"), 8, 6)

	core, logs := observer.New(zap.InfoLevel)
	m := NewManager(zap.New(core))
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("AddDir() error = %v", err)
	}

	first, err := m.Image("pond.png")
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if b := first.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("image size = %dx%d, want 8x6", b.Dx(), b.Dy())
	}
	second, err := m.Image("pond.png")
	if err != nil {
		t.Fatalf("Image() second call error = %v", err)
	}
	if first != second {
		t.Error("second Image() call did not return the cached image")
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("cache stats = %d hits, %d misses, want 1, 1", hits, misses)
	}
	if n := logs.FilterMessage("image loaded").Len(); n != 1 {
		t.Errorf("image loaded logged %d times, want 1", n)
	}
}

func TestResolvePriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(low, "sky.png"), 2, 2)
	writePNG(t, filepath.Join(high, "sky.png"), 4, 4)
	writePNG(t, filepath.Join(low, "only-low.png"), 2, 2)

	m := NewManager(nil)
	_ = m.AddDir(low)
	_ = m.AddDir(high)

	path, err := m.Resolve("sky.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != filepath.Join(high, "sky.png") {
		t.Errorf("Resolve() = %s, want the later directory", path)
	}
	if path, _ := m.Resolve("only-low.png"); path != filepath.Join(low, "only-low.png") {
		t.Errorf("Resolve() = %s, want fallback to earlier directory", path)
	}
	if _, err := m.Resolve("missing.png"); err == nil {
		t.Error("Resolve() of missing file succeeded, want error")
	}

	abs := filepath.Join(low, "sky.png")
	if path, _ := m.Resolve(abs); path != abs {
		t.Errorf("Resolve(%s) = %s, want unchanged absolute path", abs, path)
	}
}

func TestAddDirRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	writePNG(t, file, 1, 1)

	m := NewManager(nil)
	if err := m.AddDir(file); err == nil {
		t.Error("AddDir() with a file succeeded, want error")
	}
	if err := m.AddDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("AddDir() with a missing dir succeeded, want error")
	}
}

func TestSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lake.png")
	writePNG(t, path, 5, 3)

	m := NewManager(nil)
	img, err := m.Source(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Source().Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("image size = %dx%d, want 5x3", b.Dx(), b.Dy())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Source(path).Load(ctx); err == nil {
		t.Error("Load() with cancelled context succeeded, want error")
	}
}

func TestDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(nil)
	if _, err := m.Image(path); err == nil {
		t.Error("Image() of corrupt file succeeded, want error")
	}
	if m.cache.Len() != 0 {
		t.Error("corrupt image was cached")
	}
}

func TestImageRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(nil)
	if _, err := m.Image(path); err == nil {
		t.Error("Image() of .txt file succeeded, want error")
	}
	if _, misses := m.cache.Stats(); misses != 0 {
		t.Errorf("cache consulted %d times for unsupported file, want 0", misses)
	}
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 1, 1)
	core, logs := observer.New(zap.DebugLevel)
	m := NewManager(zap.New(core))
	_ = m.AddDir(dir)
	if _, err := m.Image("a.png"); err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	_, _ = m.Image("a.png")
	m.Close()

	if m.cache.Len() != 0 {
		t.Error("cache not cleared by Close")
	}
	entries := logs.FilterMessage("asset cache closed").All()
	if len(entries) != 1 {
		t.Fatalf("asset cache closed logged %d times, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["hits"] != int64(1) || fields["misses"] != int64(1) || fields["images"] != int64(1) {
		t.Errorf("cache stats fields = %v, want 1 image, 1 hit, 1 miss", fields)
	}
	if _, err := m.Resolve("a.png"); err == nil {
		t.Error("Resolve() after Close found file, want search dirs dropped")
	}
}

func TestSourceDrivesSimulation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pond.png")
	writePNG(t, path, 12, 9)

	m := NewManager(nil)
	sim, err := ripple.New(ripple.DefaultParams())
	if err != nil {
		t.Fatalf("ripple.New() error = %v", err)
	}
	t.Cleanup(sim.Stop)

	if err := sim.Initialize(10, 10, m.Source(path), 0); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}

	// A resize reuses the decoded image rather than going back to the manager.
	if err := sim.OnResize(14, 6); err != nil {
		t.Fatalf("OnResize() error = %v", err)
	}
	if err := sim.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady() after resize error = %v", err)
	}
	if hits, misses := m.cache.Stats(); hits != 0 || misses != 1 {
		t.Errorf("cache stats = %d hits, %d misses, want 0, 1", hits, misses)
	}
}
