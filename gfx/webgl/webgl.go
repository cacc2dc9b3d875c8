//go:build js && wasm

// Package webgl implements gfx on top of a browser's WebGL 1 API through
// syscall/js. Object handles are indices into per-context tables of
// JavaScript values.
package webgl

import (
	"syscall/js"

	"github.com/soypat/psurf/gfx"
)

// Context is a gfx.Context backed by a WebGLRenderingContext.
type Context struct {
	gl js.Value
	// Object tables. Index 0 is never used so the zero handle stays null.
	objects  map[uint32]js.Value
	uniforms locationTable[js.Value]
	next     uint32
	floats   js.Value
}

var _ gfx.Context = (*Context)(nil)

// NewContext wraps a WebGLRenderingContext value.
func NewContext(gl js.Value) *Context {
	return &Context{
		gl:      gl,
		objects: make(map[uint32]js.Value),
		floats:  js.Global().Get("Float32Array"),
	}
}

func (c *Context) add(v js.Value) (uint32, bool) {
	if v.IsNull() || v.IsUndefined() {
		return 0, false
	}
	c.next++
	c.objects[c.next] = v
	return c.next, true
}

func (c *Context) obj(h uint32) js.Value {
	if v, ok := c.objects[h]; ok {
		return v
	}
	return js.Null()
}

func (c *Context) del(method string, h uint32) {
	if v, ok := c.objects[h]; ok {
		c.gl.Call(method, v)
		delete(c.objects, h)
	}
}

func (c *Context) Enable(cap gfx.Enum)           { c.gl.Call("enable", int(cap)) }
func (c *Context) DepthFunc(fn gfx.Enum)         { c.gl.Call("depthFunc", int(fn)) }
func (c *Context) ClearColor(r, g, b, a float32) { c.gl.Call("clearColor", r, g, b, a) }
func (c *Context) ClearDepth(d float32)          { c.gl.Call("clearDepth", d) }
func (c *Context) Clear(mask gfx.Enum)           { c.gl.Call("clear", int(mask)) }
func (c *Context) Flush()                        { c.gl.Call("flush") }
func (c *Context) GenerateMipmap(t gfx.Enum)     { c.gl.Call("generateMipmap", int(t)) }

func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *Context) CreateBuffer() (gfx.Buffer, bool) {
	h, ok := c.add(c.gl.Call("createBuffer"))
	return gfx.Buffer(h), ok
}

func (c *Context) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	c.gl.Call("bindBuffer", int(target), c.obj(uint32(b)))
}

func (c *Context) BufferData(target gfx.Enum, data []float32, usage gfx.Enum) {
	arr := c.floats.New(len(data))
	for i, v := range data {
		arr.SetIndex(i, v)
	}
	c.gl.Call("bufferData", int(target), arr, int(usage))
}

func (c *Context) DeleteBuffer(b gfx.Buffer) { c.del("deleteBuffer", uint32(b)) }

func (c *Context) CreateShader(typ gfx.Enum) (gfx.Shader, bool) {
	h, ok := c.add(c.gl.Call("createShader", int(typ)))
	return gfx.Shader(h), ok
}

func (c *Context) ShaderSource(s gfx.Shader, src string) {
	c.gl.Call("shaderSource", c.obj(uint32(s)), src)
}

func (c *Context) CompileShader(s gfx.Shader) { c.gl.Call("compileShader", c.obj(uint32(s))) }

func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	return c.gl.Call("getShaderParameter", c.obj(uint32(s)), c.gl.Get("COMPILE_STATUS")).Truthy()
}

func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	return jsString(c.gl.Call("getShaderInfoLog", c.obj(uint32(s))))
}

func (c *Context) DeleteShader(s gfx.Shader) { c.del("deleteShader", uint32(s)) }

func (c *Context) CreateProgram() (gfx.Program, bool) {
	h, ok := c.add(c.gl.Call("createProgram"))
	return gfx.Program(h), ok
}

func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	c.gl.Call("attachShader", c.obj(uint32(p)), c.obj(uint32(s)))
}

func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	c.gl.Call("detachShader", c.obj(uint32(p)), c.obj(uint32(s)))
}

func (c *Context) LinkProgram(p gfx.Program)        { c.gl.Call("linkProgram", c.obj(uint32(p))) }
func (c *Context) UseProgram(p gfx.Program)         { c.gl.Call("useProgram", c.obj(uint32(p))) }
func (c *Context) DeleteTexture(t gfx.Texture)      { c.del("deleteTexture", uint32(t)) }
func (c *Context) ActiveTexture(unit gfx.Enum)      { c.gl.Call("activeTexture", int(unit)) }
func (c *Context) EnableVertexAttribArray(i uint32) { c.gl.Call("enableVertexAttribArray", i) }

func (c *Context) DeleteProgram(p gfx.Program) {
	c.uniforms.forget(uint32(p))
	c.del("deleteProgram", uint32(p))
}

func (c *Context) ProgramLinked(p gfx.Program) bool {
	return c.gl.Call("getProgramParameter", c.obj(uint32(p)), c.gl.Get("LINK_STATUS")).Truthy()
}

func (c *Context) ProgramInfoLog(p gfx.Program) string {
	return jsString(c.gl.Call("getProgramInfoLog", c.obj(uint32(p))))
}

func (c *Context) ActiveUniforms(p gfx.Program) []string {
	prog := c.obj(uint32(p))
	n := c.gl.Call("getProgramParameter", prog, c.gl.Get("ACTIVE_UNIFORMS")).Int()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		info := c.gl.Call("getActiveUniform", prog, i)
		if info.IsNull() {
			continue
		}
		name := info.Get("name").String()
		if len(name) > 3 && name[len(name)-3:] == "[0]" {
			name = name[:len(name)-3]
		}
		names = append(names, name)
	}
	return names
}

func (c *Context) AttribLocation(p gfx.Program, name string) int {
	return c.gl.Call("getAttribLocation", c.obj(uint32(p)), name).Int()
}

func (c *Context) VertexAttribPointer(index uint32, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", index, size, int(typ), normalized, stride, offset)
}

// UniformLocation stores WebGLUniformLocation objects in their own table,
// keyed by program. Locations are dropped when their program is deleted.
func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	return c.uniforms.lookup(uint32(p), name, func() (js.Value, bool) {
		loc := c.gl.Call("getUniformLocation", c.obj(uint32(p)), name)
		return loc, !loc.IsNull() && !loc.IsUndefined()
	})
}

func (c *Context) uniform(u gfx.Uniform) js.Value {
	if v, ok := c.uniforms.get(u); ok {
		return v
	}
	return js.Null()
}

func (c *Context) UniformMatrix4fv(u gfx.Uniform, m *[16]float32) {
	arr := c.floats.New(16)
	for i, v := range m {
		arr.SetIndex(i, v)
	}
	c.gl.Call("uniformMatrix4fv", c.uniform(u), false, arr)
}

func (c *Context) Uniform3f(u gfx.Uniform, x, y, z float32) {
	c.gl.Call("uniform3f", c.uniform(u), x, y, z)
}

func (c *Context) Uniform1i(u gfx.Uniform, v int32) { c.gl.Call("uniform1i", c.uniform(u), v) }

func (c *Context) CreateTexture() (gfx.Texture, bool) {
	h, ok := c.add(c.gl.Call("createTexture"))
	return gfx.Texture(h), ok
}

func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	c.gl.Call("bindTexture", int(target), c.obj(uint32(t)))
}

func (c *Context) TexImage2D(target gfx.Enum, level, width, height int, pixels []byte) {
	arr := js.Global().Get("Uint8Array").New(len(pixels))
	js.CopyBytesToJS(arr, pixels)
	c.gl.Call("pixelStorei", c.gl.Get("UNPACK_ALIGNMENT"), 1)
	c.gl.Call("texImage2D", int(target), level, int(gfx.RGBA), width, height, 0,
		int(gfx.RGBA), int(gfx.UnsignedByte), arr)
}

func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.gl.Call("texParameteri", int(target), int(pname), param)
}

func (c *Context) GetInteger(pname gfx.Enum) int {
	v := c.gl.Call("getParameter", int(pname))
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Int()
}

func (c *Context) DrawArrays(mode gfx.Enum, first, count int) {
	c.gl.Call("drawArrays", int(mode), first, count)
}

func jsString(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
