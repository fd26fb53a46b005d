package scene

import "github.com/hubastard/es2/engine/core"

// OrthoController2D: WASD move, scroll zoom.
type OrthoController2D struct {
	MoveSpeed float32
	ZoomSpeed float32
	Camera    *OrthoCamera2D
}

func NewOrthoController2D(cam *OrthoCamera2D) *OrthoController2D {
	return &OrthoController2D{
		MoveSpeed: 300,
		ZoomSpeed: 1.2,
		Camera:    cam,
	}
}

func (cc *OrthoController2D) Update(in *core.Input, dt float32) {
	speed := cc.MoveSpeed * dt

	// +Y is down on screen.
	if in.IsKeyDown(core.KeyW) {
		cc.Camera.Move(0, -speed)
	}
	if in.IsKeyDown(core.KeyS) {
		cc.Camera.Move(0, speed)
	}
	if in.IsKeyDown(core.KeyA) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyD) {
		cc.Camera.Move(speed, 0)
	}

	if s := in.Scroll(); s > 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom * cc.ZoomSpeed)
	} else if s < 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom / cc.ZoomSpeed)
	}
}
