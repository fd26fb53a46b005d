package gogl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	glb "github.com/hubastard/es2/engine/gfx/gl"
)

func TestLoaderRecordsUnresolvedSymbols(t *testing.T) {
	var fn byte
	resolved := unsafe.Pointer(&fn)
	l := loader{
		get: func(name string) unsafe.Pointer {
			if name == "glEnable" {
				return resolved
			}
			return nil
		},
		missing: Missing{},
	}

	assert.Equal(t, resolved, l.load("glEnable"))
	p := l.load("glGenFramebuffers\x00")
	assert.NotNil(t, p, "go-gl must see a non-nil pointer")
	assert.NotEqual(t, resolved, p)

	assert.Equal(t, Missing{"glGenFramebuffers": true}, l.missing)
	assert.True(t, l.missing.Resolved("glEnable"))
	assert.False(t, l.missing.Resolved("glGenFramebuffers"))
}

func TestBindMasksMissingSymbols(t *testing.T) {
	p := Bind(Missing{"glGenFramebuffers": true, "glUniform4fv": true}.Resolved)
	assert.Nil(t, p.GenFramebuffer)
	assert.Nil(t, p.Uniform4fv)
	assert.NotNil(t, p.BindFramebuffer)
	assert.Equal(t, []string{"glGenFramebuffers", "glUniform4fv"}, p.Missing())

	all := Missing{}
	for _, sym := range glb.Symbols() {
		all[sym] = true
	}
	none := Bind(all.Resolved)
	assert.ElementsMatch(t, glb.Symbols(), none.Missing())
}
