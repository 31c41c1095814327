// Package shader carries the fixed GLSL program pair the renderer compiles
// against the displacement texture.
//
// The two programs are externally supplied text as far as this module is
// concerned: shader compilation and execution belong to the rendering
// engine. They ship embedded so a deployment needs no asset directory, with
// Load available for on-disk overrides during shader development.
package shader

import (
	"embed"
	"fmt"
	"os"
	"strings"
)

//go:embed glsl/displace.vert glsl/displace.frag
var sources embed.FS

// Program names accepted by Source.
const (
	DisplaceVert = "displace.vert"
	DisplaceFrag = "displace.frag"
)

// Source returns the embedded GLSL text for the named program.
func Source(name string) (string, error) {
	data, err := sources.ReadFile("glsl/" + name)
	if err != nil {
		return "", fmt.Errorf("shader: unknown program %q", name)
	}
	return string(data), nil
}

// Load reads GLSL text from an on-disk file, for overriding the embedded
// programs during development.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("shader: load %s: %w", path, err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("shader: %s is empty", path)
	}
	return text, nil
}

// Vertex returns the embedded displacement vertex program.
func Vertex() string {
	src, err := Source(DisplaceVert)
	if err != nil {
		panic(err) // embedded file, unreachable
	}
	return src
}

// Fragment returns the embedded passthrough fragment program.
func Fragment() string {
	src, err := Source(DisplaceFrag)
	if err != nil {
		panic(err) // embedded file, unreachable
	}
	return src
}
