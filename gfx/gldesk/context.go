//go:build !js

// Package gldesk implements gfx on desktop OpenGL 2.1 with GLFW windows
// standing in for canvases.
//
// GLSL ES 1.00 sources are rewritten to GLSL 1.20 before compilation:
// a version directive and empty precision qualifier macros are prepended
// and default precision statements are removed.
//
// All calls must happen on the main OS thread, so programs using this
// package should call runtime.LockOSThread from an init function.
package gldesk

import (
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/soypat/psurf/gfx"
)

const glslHeader = "#version 120\n#define lowp\n#define mediump\n#define highp\n"

// Context is a gfx.Context backed by the OpenGL context current on the
// calling thread.
type Context struct{}

var _ gfx.Context = Context{}

// translateGLSL rewrites GLSL ES 1.00 source for a desktop GLSL 1.20 compiler.
func translateGLSL(src string) string {
	var b strings.Builder
	b.Grow(len(glslHeader) + len(src))
	b.WriteString(glslHeader)
	for _, line := range strings.SplitAfter(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "precision ") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

func (Context) Enable(cap gfx.Enum)       { gl.Enable(uint32(cap)) }
func (Context) DepthFunc(fn gfx.Enum)     { gl.DepthFunc(uint32(fn)) }
func (Context) ClearDepth(d float32)      { gl.ClearDepth(float64(d)) }
func (Context) Clear(mask gfx.Enum)       { gl.Clear(uint32(mask)) }
func (Context) Flush()                    { gl.Flush() }
func (Context) GenerateMipmap(t gfx.Enum) { gl.GenerateMipmap(uint32(t)) }

func (Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (Context) CreateBuffer() (gfx.Buffer, bool) {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b), b != 0
}

func (Context) BindBuffer(target gfx.Enum, b gfx.Buffer) { gl.BindBuffer(uint32(target), uint32(b)) }

func (Context) BufferData(target gfx.Enum, data []float32, usage gfx.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), 4*len(data), gl.Ptr(data), uint32(usage))
}

func (Context) DeleteBuffer(b gfx.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (Context) CreateShader(typ gfx.Enum) (gfx.Shader, bool) {
	s := gl.CreateShader(uint32(typ))
	return gfx.Shader(s), s != 0
}

func (Context) ShaderSource(s gfx.Shader, src string) {
	csrc, free := gl.Strs(translateGLSL(src) + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (Context) CompileShader(s gfx.Shader) { gl.CompileShader(uint32(s)) }

func (Context) ShaderCompiled(s gfx.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (Context) ShaderInfoLog(s gfx.Shader) string {
	var n int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(uint32(s), n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Context) DeleteShader(s gfx.Shader) { gl.DeleteShader(uint32(s)) }

func (Context) CreateProgram() (gfx.Program, bool) {
	p := gl.CreateProgram()
	return gfx.Program(p), p != 0
}

func (Context) AttachShader(p gfx.Program, s gfx.Shader) { gl.AttachShader(uint32(p), uint32(s)) }
func (Context) DetachShader(p gfx.Program, s gfx.Shader) { gl.DetachShader(uint32(p), uint32(s)) }
func (Context) LinkProgram(p gfx.Program)                { gl.LinkProgram(uint32(p)) }
func (Context) UseProgram(p gfx.Program)                 { gl.UseProgram(uint32(p)) }
func (Context) DeleteProgram(p gfx.Program)              { gl.DeleteProgram(uint32(p)) }

func (Context) ProgramLinked(p gfx.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (Context) ProgramInfoLog(p gfx.Program) string {
	var n int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(uint32(p), n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Context) ActiveUniforms(p gfx.Program) []string {
	var count, maxLen int32
	gl.GetProgramiv(uint32(p), gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(uint32(p), gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count == 0 || maxLen == 0 {
		return nil
	}
	names := make([]string, 0, count)
	buf := make([]uint8, maxLen)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(uint32(p), i, maxLen, &length, &size, &typ, &buf[0])
		names = append(names, strings.TrimSuffix(string(buf[:length]), "[0]"))
	}
	return names
}

func (Context) AttribLocation(p gfx.Program, name string) int {
	return int(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (Context) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Context) VertexAttribPointer(index uint32, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(index, int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	return gfx.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (Context) UniformMatrix4fv(u gfx.Uniform, m *[16]float32) {
	gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (Context) Uniform3f(u gfx.Uniform, x, y, z float32) { gl.Uniform3f(int32(u), x, y, z) }
func (Context) Uniform1i(u gfx.Uniform, v int32)         { gl.Uniform1i(int32(u), v) }

func (Context) CreateTexture() (gfx.Texture, bool) {
	var t uint32
	gl.GenTextures(1, &t)
	return gfx.Texture(t), t != 0
}

func (Context) ActiveTexture(unit gfx.Enum)                { gl.ActiveTexture(uint32(unit)) }
func (Context) BindTexture(target gfx.Enum, t gfx.Texture) { gl.BindTexture(uint32(target), uint32(t)) }

func (Context) TexImage2D(target gfx.Enum, level, width, height int, pixels []byte) {
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(uint32(target), int32(level), gl.RGBA, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (Context) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (Context) DeleteTexture(t gfx.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (Context) GetInteger(pname gfx.Enum) int {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (Context) DrawArrays(mode gfx.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}
