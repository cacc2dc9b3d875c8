// Package fake implements an in-memory gfx.Context and gfx.Host that record
// every call, for headless tests of code that draws through package gfx.
package fake

import (
	"strings"

	"github.com/soypat/psurf/gfx"
)

// DefaultMaxTextureSize is reported for MAX_TEXTURE_SIZE when Context.MaxTextureSize is zero.
const DefaultMaxTextureSize = 4096

// Draw is a recorded DrawArrays call with a snapshot of the uniforms of the
// program that was current when it was issued.
type Draw struct {
	Mode    gfx.Enum
	First   int
	Count   int
	Program gfx.Program
	// Uniforms maps uniform names to the values set on the program.
	Uniforms map[string][]float32
}

// TextureState is the recorded contents and parameters of a texture.
type TextureState struct {
	Width, Height int
	Pixels        []byte
	Params        map[gfx.Enum]int32
	Mipmapped     bool
	// Uploads counts TexImage2D calls on the texture.
	Uploads int
}

// AttribPointer is the recorded layout of an enabled vertex attribute.
type AttribPointer struct {
	Buffer  gfx.Buffer
	Size    int
	Stride  int
	Offset  int
	Enabled bool
}

type shader struct {
	typ      gfx.Enum
	src      string
	compiled bool
	log      string
}

type program struct {
	attached []gfx.Shader
	linked   bool
	log      string
	uniforms []string
	attribs  []string
	values   map[gfx.Uniform][]float32
}

// Context is a recording gfx.Context. The zero value is not usable, use NewContext.
type Context struct {
	// FailCompile decides whether a shader source fails to compile.
	// When nil sources containing "#error" fail.
	FailCompile func(src string) bool
	// FailLink makes every link fail.
	FailLink bool
	// Optimized names uniforms the linker drops from every program.
	Optimized map[string]bool
	// RefuseAlloc makes every Create* call fail, as on a lost context.
	RefuseAlloc bool
	// AllocLimit, when positive, makes Create* calls fail once that many
	// objects have been created.
	AllocLimit int
	// MaxTextureSize is reported for MAX_TEXTURE_SIZE.
	MaxTextureSize int

	// Calls holds the name of every method called, in order.
	Calls   []string
	Draws   []Draw
	Flushes int
	Enabled map[gfx.Enum]bool
	Depth   gfx.Enum
	View    [4]int
	// ClearRGBA is the last value passed to ClearColor.
	ClearRGBA [4]float32
	// ClearDepthValue is the last value passed to ClearDepth.
	ClearDepthValue float32
	// Cleared is the last mask passed to Clear.
	Cleared gfx.Enum

	next        uint32
	buffers     map[gfx.Buffer][]float32
	shaders     map[gfx.Shader]*shader
	programs    map[gfx.Program]*program
	textures    map[gfx.Texture]*TextureState
	attribs     map[uint32]*AttribPointer
	current     gfx.Program
	arrayBuffer gfx.Buffer
	unit        gfx.Enum
	bound       map[gfx.Enum]gfx.Texture
}

var _ gfx.Context = (*Context)(nil)

// NewContext returns an empty recording context.
func NewContext() *Context {
	return &Context{
		Enabled:  make(map[gfx.Enum]bool),
		buffers:  make(map[gfx.Buffer][]float32),
		shaders:  make(map[gfx.Shader]*shader),
		programs: make(map[gfx.Program]*program),
		textures: make(map[gfx.Texture]*TextureState),
		attribs:  make(map[uint32]*AttribPointer),
		bound:    make(map[gfx.Enum]gfx.Texture),
		unit:     gfx.Texture0,
	}
}

func (c *Context) record(name string) { c.Calls = append(c.Calls, name) }

func (c *Context) alloc() (uint32, bool) {
	if c.RefuseAlloc || (c.AllocLimit > 0 && int(c.next) >= c.AllocLimit) {
		return 0, false
	}
	c.next++
	return c.next, true
}

// Count returns how many times the method name was called.
func (c *Context) Count(name string) int {
	n := 0
	for _, call := range c.Calls {
		if call == name {
			n++
		}
	}
	return n
}

// Allocations returns how many Create* calls succeeded.
func (c *Context) Allocations() int { return int(c.next) }

// LiveBuffers returns the number of buffers created and not yet deleted.
func (c *Context) LiveBuffers() int { return len(c.buffers) }

// LiveShaders returns the number of shaders created and not yet deleted.
func (c *Context) LiveShaders() int { return len(c.shaders) }

// LivePrograms returns the number of programs created and not yet deleted.
func (c *Context) LivePrograms() int { return len(c.programs) }

// LiveTextures returns the number of textures created and not yet deleted.
func (c *Context) LiveTextures() int { return len(c.textures) }

// Live returns the number of objects of any kind created and not yet deleted.
func (c *Context) Live() int {
	return len(c.buffers) + len(c.shaders) + len(c.programs) + len(c.textures)
}

// BufferContents returns the data last uploaded to b.
func (c *Context) BufferContents(b gfx.Buffer) []float32 { return c.buffers[b] }

// TextureState returns the recorded state of t or nil if t does not exist.
func (c *Context) TextureState(t gfx.Texture) *TextureState { return c.textures[t] }

// Attrib returns the recorded layout of attribute index.
func (c *Context) Attrib(index uint32) (AttribPointer, bool) {
	a, ok := c.attribs[index]
	if !ok {
		return AttribPointer{}, false
	}
	return *a, true
}

// CurrentProgram returns the program last passed to UseProgram.
func (c *Context) CurrentProgram() gfx.Program { return c.current }

func (c *Context) Enable(cap gfx.Enum) {
	c.record("Enable")
	c.Enabled[cap] = true
}

func (c *Context) DepthFunc(fn gfx.Enum) {
	c.record("DepthFunc")
	c.Depth = fn
}

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport")
	c.View = [4]int{x, y, width, height}
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor")
	c.ClearRGBA = [4]float32{r, g, b, a}
}

func (c *Context) ClearDepth(d float32) {
	c.record("ClearDepth")
	c.ClearDepthValue = d
}

func (c *Context) Clear(mask gfx.Enum) {
	c.record("Clear")
	c.Cleared = mask
}

func (c *Context) CreateBuffer() (gfx.Buffer, bool) {
	c.record("CreateBuffer")
	id, ok := c.alloc()
	if !ok {
		return 0, false
	}
	c.buffers[gfx.Buffer(id)] = nil
	return gfx.Buffer(id), true
}

func (c *Context) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	c.record("BindBuffer")
	if target == gfx.ArrayBuffer {
		c.arrayBuffer = b
	}
}

func (c *Context) BufferData(target gfx.Enum, data []float32, usage gfx.Enum) {
	c.record("BufferData")
	if _, ok := c.buffers[c.arrayBuffer]; ok && target == gfx.ArrayBuffer {
		c.buffers[c.arrayBuffer] = append([]float32(nil), data...)
	}
}

func (c *Context) DeleteBuffer(b gfx.Buffer) {
	c.record("DeleteBuffer")
	delete(c.buffers, b)
}

func (c *Context) CreateShader(typ gfx.Enum) (gfx.Shader, bool) {
	c.record("CreateShader")
	id, ok := c.alloc()
	if !ok {
		return 0, false
	}
	c.shaders[gfx.Shader(id)] = &shader{typ: typ}
	return gfx.Shader(id), true
}

func (c *Context) ShaderSource(s gfx.Shader, src string) {
	c.record("ShaderSource")
	if sh, ok := c.shaders[s]; ok {
		sh.src = src
	}
}

func (c *Context) CompileShader(s gfx.Shader) {
	c.record("CompileShader")
	sh, ok := c.shaders[s]
	if !ok {
		return
	}
	fail := strings.Contains(sh.src, "#error")
	if c.FailCompile != nil {
		fail = c.FailCompile(sh.src)
	}
	sh.compiled = !fail
	sh.log = ""
	if fail {
		sh.log = "ERROR: 0:1: syntax error"
	}
}

func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	sh, ok := c.shaders[s]
	return ok && sh.compiled
}

func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	if sh, ok := c.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (c *Context) DeleteShader(s gfx.Shader) {
	c.record("DeleteShader")
	delete(c.shaders, s)
}

func (c *Context) CreateProgram() (gfx.Program, bool) {
	c.record("CreateProgram")
	id, ok := c.alloc()
	if !ok {
		return 0, false
	}
	c.programs[gfx.Program(id)] = &program{values: make(map[gfx.Uniform][]float32)}
	return gfx.Program(id), true
}

func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	c.record("AttachShader")
	if prog, ok := c.programs[p]; ok {
		prog.attached = append(prog.attached, s)
	}
}

func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	c.record("DetachShader")
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	for i, a := range prog.attached {
		if a == s {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			break
		}
	}
}

func (c *Context) LinkProgram(p gfx.Program) {
	c.record("LinkProgram")
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	prog.linked = false
	prog.uniforms, prog.attribs = nil, nil
	var hasVertex, hasFragment bool
	for _, s := range prog.attached {
		sh, ok := c.shaders[s]
		if !ok || !sh.compiled {
			prog.log = "attached shader is not compiled"
			return
		}
		switch sh.typ {
		case gfx.VertexShader:
			hasVertex = true
			prog.attribs = append(prog.attribs, declared(sh.src, "attribute")...)
		case gfx.FragmentShader:
			hasFragment = true
		}
		for _, name := range declared(sh.src, "uniform") {
			if !c.Optimized[name] && !contains(prog.uniforms, name) {
				prog.uniforms = append(prog.uniforms, name)
			}
		}
	}
	switch {
	case c.FailLink:
		prog.log = "error: varying mismatch between stages"
	case !hasVertex || !hasFragment:
		prog.log = "error: program needs a vertex and a fragment shader"
	default:
		prog.linked = true
		prog.log = ""
	}
}

func (c *Context) ProgramLinked(p gfx.Program) bool {
	prog, ok := c.programs[p]
	return ok && prog.linked
}

func (c *Context) ProgramInfoLog(p gfx.Program) string {
	if prog, ok := c.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (c *Context) ActiveUniforms(p gfx.Program) []string {
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return nil
	}
	return append([]string(nil), prog.uniforms...)
}

func (c *Context) UseProgram(p gfx.Program) {
	c.record("UseProgram")
	c.current = p
}

func (c *Context) DeleteProgram(p gfx.Program) {
	c.record("DeleteProgram")
	delete(c.programs, p)
	if c.current == p {
		c.current = 0
	}
}

func (c *Context) AttribLocation(p gfx.Program, name string) int {
	c.record("AttribLocation")
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return -1
	}
	return index(prog.attribs, name)
}

func (c *Context) EnableVertexAttribArray(i uint32) {
	c.record("EnableVertexAttribArray")
	c.attrib(i).Enabled = true
}

func (c *Context) VertexAttribPointer(i uint32, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer")
	a := c.attrib(i)
	a.Buffer = c.arrayBuffer
	a.Size = size
	a.Stride = stride
	a.Offset = offset
}

func (c *Context) attrib(i uint32) *AttribPointer {
	a, ok := c.attribs[i]
	if !ok {
		a = &AttribPointer{}
		c.attribs[i] = a
	}
	return a
}

func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	c.record("UniformLocation")
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return -1
	}
	return gfx.Uniform(index(prog.uniforms, name))
}

func (c *Context) setUniform(u gfx.Uniform, v ...float32) {
	prog, ok := c.programs[c.current]
	if !ok || u < 0 {
		return
	}
	prog.values[u] = v
}

func (c *Context) UniformMatrix4fv(u gfx.Uniform, m *[16]float32) {
	c.record("UniformMatrix4fv")
	c.setUniform(u, m[:]...)
}

func (c *Context) Uniform3f(u gfx.Uniform, x, y, z float32) {
	c.record("Uniform3f")
	c.setUniform(u, x, y, z)
}

func (c *Context) Uniform1i(u gfx.Uniform, v int32) {
	c.record("Uniform1i")
	c.setUniform(u, float32(v))
}

// UniformValue returns the value last set on the uniform name of program p.
func (c *Context) UniformValue(p gfx.Program, name string) ([]float32, bool) {
	prog, ok := c.programs[p]
	if !ok {
		return nil, false
	}
	loc := index(prog.uniforms, name)
	v, ok := prog.values[gfx.Uniform(loc)]
	return v, ok && loc >= 0
}

func (c *Context) CreateTexture() (gfx.Texture, bool) {
	c.record("CreateTexture")
	id, ok := c.alloc()
	if !ok {
		return 0, false
	}
	c.textures[gfx.Texture(id)] = &TextureState{Params: make(map[gfx.Enum]int32)}
	return gfx.Texture(id), true
}

func (c *Context) ActiveTexture(unit gfx.Enum) {
	c.record("ActiveTexture")
	c.unit = unit
}

func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	c.record("BindTexture")
	if target == gfx.Texture2D {
		c.bound[c.unit] = t
	}
}

// BoundTexture returns the texture bound to unit.
func (c *Context) BoundTexture(unit gfx.Enum) gfx.Texture { return c.bound[unit] }

func (c *Context) boundState() *TextureState {
	return c.textures[c.bound[c.unit]]
}

func (c *Context) TexImage2D(target gfx.Enum, level, width, height int, pixels []byte) {
	c.record("TexImage2D")
	ts := c.boundState()
	if ts == nil || level != 0 {
		return
	}
	ts.Width, ts.Height = width, height
	ts.Pixels = append([]byte(nil), pixels...)
	ts.Mipmapped = false
	ts.Uploads++
}

func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.record("TexParameteri")
	if ts := c.boundState(); ts != nil {
		ts.Params[pname] = param
	}
}

func (c *Context) GenerateMipmap(target gfx.Enum) {
	c.record("GenerateMipmap")
	if ts := c.boundState(); ts != nil {
		ts.Mipmapped = true
	}
}

func (c *Context) DeleteTexture(t gfx.Texture) {
	c.record("DeleteTexture")
	delete(c.textures, t)
}

func (c *Context) GetInteger(pname gfx.Enum) int {
	if pname == gfx.MaxTextureSize {
		if c.MaxTextureSize > 0 {
			return c.MaxTextureSize
		}
		return DefaultMaxTextureSize
	}
	return 0
}

func (c *Context) DrawArrays(mode gfx.Enum, first, count int) {
	c.record("DrawArrays")
	d := Draw{Mode: mode, First: first, Count: count, Program: c.current, Uniforms: make(map[string][]float32)}
	if prog, ok := c.programs[c.current]; ok {
		for i, name := range prog.uniforms {
			if v, ok := prog.values[gfx.Uniform(i)]; ok {
				d.Uniforms[name] = append([]float32(nil), v...)
			}
		}
	}
	c.Draws = append(c.Draws, d)
}

func (c *Context) Flush() {
	c.record("Flush")
	c.Flushes++
}

// declared returns the names declared with qualifier in GLSL source, one
// declaration per line.
func declared(src, qualifier string) []string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != qualifier {
			continue
		}
		name := strings.TrimSuffix(fields[len(fields)-1], ";")
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

func index(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func contains(names []string, name string) bool { return index(names, name) >= 0 }
