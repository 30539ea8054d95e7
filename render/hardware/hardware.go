// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package hardware is the --hardware Renderer: it shares render/sdl's
// SDL window and event pump, but presents by uploading the terminal
// as a GL texture and drawing it on a full-screen quad instead of
// going through SDL's own 2D renderer.
package hardware

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/block16/craftos-go/terminal"
)

const vertexShaderSource = `
#version 150
in vec2 position;
in vec2 texCoord;
out vec2 fragTexCoord;
void main() {
	fragTexCoord = texCoord;
	gl_Position = vec4(position, 0.0, 1.0);
}
` + "\x00"

const fragmentShaderSource = `
#version 150
in vec2 fragTexCoord;
out vec4 outColor;
uniform sampler2D tex;
void main() {
	outColor = texture(tex, fragTexCoord);
}
` + "\x00"

// quadVertices is a full-screen triangle strip: (position.xy, uv.xy)
// per vertex.
var quadVertices = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, 1, 1, 0,
}

// Renderer uploads a computer's terminal as a GL texture each frame.
type Renderer struct {
	window  *sdl.Window
	context sdl.GLContext

	program uint32
	vao, vbo uint32
	texture  uint32

	texWidth, texHeight int32
	pixels               []byte

	quit bool
}

// New creates an SDL window with an OpenGL context and compiles the
// quad shader used to present the uploaded texture.
func New(label string) (*Renderer, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("render/hardware: initializing SDL2: %w", err)
	}

	w := int32(terminal.DefaultWidth * 8)
	h := int32(terminal.DefaultHeight * 12)
	window, err := sdl.CreateWindow(label,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, h,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("render/hardware: creating window: %w", err)
	}

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	ctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render/hardware: creating GL context: %w", err)
	}
	if err := window.GLMakeCurrent(ctx); err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render/hardware: making GL context current: %w", err)
	}
	if err := gl.Init(); err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render/hardware: initializing gl bindings: %w", err)
	}
	_ = sdl.GLSetSwapInterval(1)

	r := &Renderer{window: window, context: ctx}
	if err := r.setup(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) setup() error {
	vsh, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("render/hardware: %w", err)
	}
	fsh, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("render/hardware: %w", err)
	}

	r.program = gl.CreateProgram()
	gl.AttachShader(r.program, vsh)
	gl.AttachShader(r.program, fsh)
	gl.LinkProgram(r.program)
	gl.DeleteShader(vsh)
	gl.DeleteShader(fsh)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	posAttrib := uint32(gl.GetAttribLocation(r.program, gl.Str("position\x00")))
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointerWithOffset(posAttrib, 2, gl.FLOAT, false, 4*4, 0)

	uvAttrib := uint32(gl.GetAttribLocation(r.program, gl.Str("texCoord\x00")))
	gl.EnableVertexAttribArray(uvAttrib)
	gl.VertexAttribPointerWithOffset(uvAttrib, 2, gl.FLOAT, false, 4*4, 2*4)

	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compiling shader: %s", log)
	}
	return shader, nil
}

// Render rasterizes buf's snapshot into an RGBA buffer (one texel per
// character cell, colored by its background palette entry), uploads
// it as a texture, and draws the full-screen quad.
func (r *Renderer) Render(buf *terminal.Buffer) {
	snap := buf.Snapshot()
	r.uploadTexture(snap)

	gl.Viewport(0, 0, r.texWidth, r.texHeight)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	r.window.GLSwap()
}

func (r *Renderer) uploadTexture(snap terminal.Snapshot) {
	w, h := int32(snap.Width), int32(snap.Height)
	if int(w*h*4) > len(r.pixels) {
		r.pixels = make([]byte, w*h*4)
	}
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			i := y*snap.Width + x
			bg := snap.Colors[i] >> 4
			rgb := paletteEntry(snap.Palette, bg)
			o := i * 4
			r.pixels[o], r.pixels[o+1], r.pixels[o+2], r.pixels[o+3] = rgb.R, rgb.G, rgb.B, 255
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	if w != r.texWidth || h != r.texHeight {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.pixels))
		r.texWidth, r.texHeight = w, h
		return
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.pixels))
}

func paletteEntry(palette []terminal.RGB, i byte) terminal.RGB {
	if int(i) >= len(palette) {
		return terminal.RGB{}
	}
	return palette[i]
}

// Resize applies buf's pending resize and matches the window to it.
func (r *Renderer) Resize(buf *terminal.Buffer) {
	buf.ApplyResize()
	w, h := buf.Size()
	r.window.SetSize(int32(w*8), int32(h*12))
}

// ShowMessage pops a native modal dialog box over the window.
func (r *Renderer) ShowMessage(title, body string) {
	box := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_ERROR,
		Window:  r.window,
		Title:   title,
		Message: body,
		Buttons: []sdl.MessageBoxButtonData{
			{Flags: sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT, ButtonID: 0, Text: "OK"},
		},
	}
	_, _ = sdl.ShowMessageBox(&box)
}

// SetLabel sets the window title.
func (r *Renderer) SetLabel(label string) {
	r.window.SetTitle(label)
}

// Update pumps SDL's event queue once.
func (r *Renderer) Update() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			r.quit = true
		}
	}
}

// Closed reports whether the window system asked to close this
// window since the Renderer was created.
func (r *Renderer) Closed() bool {
	return r.quit
}

// Close tears down GL objects, the window, and SDL's video subsystem.
func (r *Renderer) Close() {
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
	}
	sdl.Quit()
}
