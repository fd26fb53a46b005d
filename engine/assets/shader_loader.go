// Package assets bundles the engine's shaders and textures.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

// FS holds the bundled shaders/ and textures/ trees.
//
//go:embed shaders textures
var FS embed.FS

// LoadShader returns the source of a bundled GLSL file.
func LoadShader(name string) (string, error) {
	return ReadShader(FS, "shaders/"+name)
}

// ReadShader reads a GLSL file from fsys.
func ReadShader(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}
