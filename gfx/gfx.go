// Package gfx defines the immediate-mode graphics API the shape renderers
// draw through, along with the pipeline, vertex layout and texture helpers
// built on top of it.
//
// The Context interface mirrors the WebGL 1 entry points. Enum values are the
// numeric GL constants, so backends pass them through unchanged.
package gfx

// Enum is a GL enumeration value.
type Enum uint32

// GL enumerations used by this module. Values match the WebGL 1 and
// OpenGL 2.1 specifications.
const (
	Points    Enum = 0x0000
	Lines     Enum = 0x0001
	Triangles Enum = 0x0004

	DepthBufferBit Enum = 0x0100
	ColorBufferBit Enum = 0x4000

	DepthTest Enum = 0x0B71
	Less      Enum = 0x0201
	LEqual    Enum = 0x0203

	ArrayBuffer  Enum = 0x8892
	StaticDraw   Enum = 0x88E4
	Float        Enum = 0x1406
	UnsignedByte Enum = 0x1401

	VertexShader   Enum = 0x8B31
	FragmentShader Enum = 0x8B30

	Texture2D          Enum = 0x0DE1
	Texture0           Enum = 0x84C0
	TextureMagFilter   Enum = 0x2800
	TextureMinFilter   Enum = 0x2801
	TextureWrapS       Enum = 0x2802
	TextureWrapT       Enum = 0x2803
	Nearest            Enum = 0x2600
	Linear             Enum = 0x2601
	LinearMipmapLinear Enum = 0x2703
	ClampToEdge        Enum = 0x812F
	Repeat             Enum = 0x2901
	RGBA               Enum = 0x1908

	MaxTextureSize Enum = 0x0D33
)

// Object handles. The zero value of every handle is the null object.
type (
	Buffer  uint32
	Shader  uint32
	Program uint32
	Texture uint32
	// Uniform is a uniform location. Negative values mean the uniform does not exist.
	Uniform int32
)

// Context is a graphics context bound to a single drawing surface.
// All methods must be called from the thread that owns the context.
// Create* methods return false when the context could not allocate the object,
// which happens on lost contexts.
type Context interface {
	Enable(cap Enum)
	DepthFunc(fn Enum)
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	ClearDepth(d float32)
	Clear(mask Enum)

	CreateBuffer() (Buffer, bool)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []float32, usage Enum)
	DeleteBuffer(b Buffer)

	CreateShader(typ Enum) (Shader, bool)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() (Program, bool)
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	ActiveUniforms(p Program) []string
	UseProgram(p Program)
	DeleteProgram(p Program)

	// AttribLocation returns a negative value if the program has no active attribute name.
	AttribLocation(p Program, name string) int
	EnableVertexAttribArray(index uint32)
	// VertexAttribPointer describes the layout of the attribute in the bound
	// array buffer. stride and offset are in bytes.
	VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int)

	UniformLocation(p Program, name string) Uniform
	UniformMatrix4fv(u Uniform, m *[16]float32)
	Uniform3f(u Uniform, x, y, z float32)
	Uniform1i(u Uniform, v int32)

	CreateTexture() (Texture, bool)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	// TexImage2D uploads tightly packed RGBA pixels with unsigned byte components.
	TexImage2D(target Enum, level, width, height int, pixels []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)
	DeleteTexture(t Texture)

	GetInteger(pname Enum) int
	DrawArrays(mode Enum, first, count int)
	Flush()
}

// Host is the environment that owns drawing surfaces and can fetch images.
// In a browser the host is the DOM; on the desktop it is a set of named windows.
type Host interface {
	// Canvas returns the context of the canvas with the given id. Failures
	// are reported as *ContextError.
	Canvas(id string) (Context, error)
	// LoadImage starts loading the image at url and returns immediately.
	LoadImage(url string) *ImageFuture
}
