package shader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brannondorsey/emerge2016/shader"
)

// TestEmbeddedPrograms validates both programs are embedded and sample the
// two channels the encoder writes.
func TestEmbeddedPrograms(t *testing.T) {
	vert := shader.Vertex()
	if !strings.Contains(vert, "depthMap") {
		t.Error("vertex program does not sample the depth map")
	}
	if !strings.Contains(vert, "texel.r") || !strings.Contains(vert, "texel.g") {
		t.Error("vertex program must reconstruct depth from both R and G channels")
	}

	frag := shader.Fragment()
	if !strings.Contains(frag, "gl_FragColor") {
		t.Error("fragment program produces no color")
	}
}

// TestSourceUnknownName validates unknown program names are reported.
func TestSourceUnknownName(t *testing.T) {
	if _, err := shader.Source("nope.vert"); err == nil {
		t.Error("Source() accepted an unknown program name")
	}
}

// TestLoadOverride validates on-disk override loading and the empty-file
// guard.
func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "custom.vert")
	if err := os.WriteFile(path, []byte("void main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := shader.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !strings.Contains(src, "void main") {
		t.Error("Load() returned wrong content")
	}

	empty := filepath.Join(dir, "empty.frag")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := shader.Load(empty); err == nil {
		t.Error("Load() accepted an empty program")
	}

	if _, err := shader.Load(filepath.Join(dir, "missing.vert")); err == nil {
		t.Error("Load() accepted a missing file")
	}
}
