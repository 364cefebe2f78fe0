// Package present draws rendered ripple frames to the window with OpenGL.
package present

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Presenter streams an RGBA frame buffer into a texture and draws it over the
// whole viewport.
type Presenter struct {
	program  uint32
	vao      uint32
	texture  uint32
	uniform  int32
	texW     int
	texH     int
	viewW    int32
	viewH    int32
	uploaded bool
	log      *zap.Logger
}

// New creates a presenter.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(viewW, viewH int, log *zap.Logger) (*Presenter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := linkProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	p := &Presenter{
		program: program,
		uniform: gl.GetUniformLocation(program, gl.Str("uFrame\x00")),
		log:     log,
	}
	gl.GenVertexArrays(1, &p.vao)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	p.Resize(viewW, viewH)
	return p, nil
}

// Resize sets the viewport in drawable pixels.
func (p *Presenter) Resize(width, height int) {
	p.viewW, p.viewH = int32(width), int32(height)
	gl.Viewport(0, 0, p.viewW, p.viewH)
	p.log.Debug("presenter resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Upload copies a tightly packed RGBA frame into the texture. The texture is
// reallocated when the frame size changes.
func (p *Presenter) Upload(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pix) < width*height*4 {
		return fmt.Errorf("frame buffer %d bytes too small for %dx%d", len(pix), width, height)
	}
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	if width != p.texW || height != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		p.texW, p.texH = width, height
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	p.uploaded = true
	return nil
}

// Draw clears the viewport and draws the last uploaded frame, if any.
func (p *Presenter) Draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if !p.uploaded {
		return
	}
	gl.UseProgram(p.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.Uniform1i(p.uniform, 0)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// Close releases GL objects.
func (p *Presenter) Close() {
	p.log.Info("closing presenter")
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
}
