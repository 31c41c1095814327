// Package snapshot dumps the blender's pixel buffer to disk for visual
// debugging without a renderer attached.
//
// The pixel buffer is a live view that the blender overwrites every tick,
// so every writer here copies it into a stable image first. NearestNeighbor
// upscaling is offered because a 640×480 depth texture is hard to eyeball
// at native size and anything smoother would blur the texel boundaries the
// shader actually samples.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"github.com/brannondorsey/emerge2016/depthtex"
)

// Capture copies the buffer into a stable image, optionally upscaled by an
// integer factor with NearestNeighbor (crisp texels). scale < 1 is treated
// as 1.
func Capture(buf *depthtex.PixelBuffer, scale int) *image.NRGBA {
	src := buf.Image()

	if scale <= 1 {
		dst := image.NewNRGBA(src.Rect)
		copy(dst.Pix, src.Pix)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, buf.Width*scale, buf.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WriteWebP encodes the buffer as lossless WebP.
func WriteWebP(w io.Writer, buf *depthtex.PixelBuffer, scale int) error {
	if err := nativewebp.Encode(w, Capture(buf, scale), nil); err != nil {
		return fmt.Errorf("snapshot: webp encode: %w", err)
	}
	return nil
}

// WritePNG encodes the buffer as PNG.
func WritePNG(w io.Writer, buf *depthtex.PixelBuffer, scale int) error {
	if err := png.Encode(w, Capture(buf, scale)); err != nil {
		return fmt.Errorf("snapshot: png encode: %w", err)
	}
	return nil
}

// WriteTGA encodes the buffer as TGA.
func WriteTGA(w io.Writer, buf *depthtex.PixelBuffer, scale int) error {
	if err := tga.Encode(w, Capture(buf, scale)); err != nil {
		return fmt.Errorf("snapshot: tga encode: %w", err)
	}
	return nil
}

// WriteFile writes the buffer to path, picking the format from the
// extension (.webp, .png, .tga).
func WriteFile(path string, buf *depthtex.PixelBuffer, scale int) error {
	var encode func(io.Writer, *depthtex.PixelBuffer, int) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		encode = WriteWebP
	case ".png":
		encode = WritePNG
	case ".tga":
		encode = WriteTGA
	default:
		return fmt.Errorf("snapshot: unsupported extension %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := encode(f, buf, scale); err != nil {
		return err
	}
	return f.Close()
}
