package glbackend

import (
	"fmt"

	"github.com/hubastard/es2/engine/handle"
)

// MaterialID addresses a PhongMaterial owned by a Context.
type MaterialID handle.Handle

func (id MaterialID) String() string { return "material " + handle.Handle(id).String() }

// PhongMaterial holds the surface description of a mesh view. Map texture
// ids are not owned: releasing the material leaves them alone.
type PhongMaterial struct {
	DiffuseColor [4]float32
	Maps         [NumMaps]uint32

	// Whether the specular (bump) map carries extra data in its alpha channel.
	SpecularAlpha bool
	BumpAlpha     bool
}

// CreatePhongMaterial returns a material with a zero diffuse colour and no maps.
func (c *Context) CreatePhongMaterial() (MaterialID, error) {
	if !c.live() {
		return 0, ErrContextDisposed
	}
	return MaterialID(c.materials.Insert(&PhongMaterial{})), nil
}

func (c *Context) material(id MaterialID) (*PhongMaterial, error) {
	m, err := c.materials.Get(handle.Handle(id))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", id, err)
	}
	return m, nil
}

// PhongMaterial returns a copy of the material record.
func (c *Context) PhongMaterial(id MaterialID) (PhongMaterial, error) {
	m, err := c.material(id)
	if err != nil {
		return PhongMaterial{}, err
	}
	return *m, nil
}

func (c *Context) SetSolidColor(id MaterialID, r, g, b, a float32) error {
	if !c.live() {
		return ErrContextDisposed
	}
	m, err := c.material(id)
	if err != nil {
		return err
	}
	m.DiffuseColor = [4]float32{r, g, b, a}
	return nil
}

// SetMap assigns tex to a map slot. The alpha flags apply to the whole
// material and are overwritten by every call.
func (c *Context) SetMap(id MaterialID, mt MapType, tex uint32, specularAlpha, bumpAlpha bool) error {
	if !c.live() {
		return ErrContextDisposed
	}
	if mt < 0 || mt >= NumMaps {
		return fmt.Errorf("%w: map type %d", ErrInvalidArgument, mt)
	}
	m, err := c.material(id)
	if err != nil {
		return err
	}
	m.Maps[mt] = tex
	m.SpecularAlpha = specularAlpha
	m.BumpAlpha = bumpAlpha
	return nil
}

// ReleasePhongMaterial invalidates id. Textures referenced by the material
// are not deleted.
func (c *Context) ReleasePhongMaterial(id MaterialID) error {
	if !c.live() {
		return ErrContextDisposed
	}
	if _, err := c.materials.Release(handle.Handle(id)); err != nil {
		c.logger().Warn("ReleasePhongMaterial: bad handle", "material", id, "err", err)
		return fmt.Errorf("%v: %w", id, err)
	}
	return nil
}
