package gfx

import (
	"log/slog"
)

// ShaderSource holds the GLSL text of both programmable stages.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Option configures pipelines and textures.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger warnings are reported to. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Pipeline is a linked shader program plus a cache of its uniform locations.
// A Pipeline only exists in linked state.
type Pipeline struct {
	ctx      Context
	prog     Program
	uniforms map[string]Uniform
	log      *slog.Logger
}

// NewPipeline compiles both stages of src and links them into a program.
// On failure every object created along the way is deleted and the
// returned error is a *ShaderCompileError, *ShaderLinkError or
// *ObjectAllocationError.
func NewPipeline(ctx Context, src ShaderSource, opts ...Option) (*Pipeline, error) {
	o := newOptions(opts)
	vs, err := compileStage(ctx, VertexStage, src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(ctx, FragmentStage, src.Fragment)
	if err != nil {
		ctx.DeleteShader(vs)
		return nil, err
	}
	prog, ok := ctx.CreateProgram()
	if !ok {
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		return nil, &ObjectAllocationError{Kind: "program"}
	}
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.LinkProgram(prog)
	linked := ctx.ProgramLinked(prog)
	var linkLog string
	if !linked {
		linkLog = ctx.ProgramInfoLog(prog)
	}
	// The program keeps what it needs from the stages once linked.
	ctx.DetachShader(prog, vs)
	ctx.DetachShader(prog, fs)
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)
	if !linked {
		ctx.DeleteProgram(prog)
		return nil, &ShaderLinkError{Log: linkLog}
	}
	return &Pipeline{
		ctx:      ctx,
		prog:     prog,
		uniforms: make(map[string]Uniform),
		log:      o.log,
	}, nil
}

func compileStage(ctx Context, stage ShaderStage, src string) (Shader, error) {
	sh, ok := ctx.CreateShader(stage.enum())
	if !ok {
		return 0, &ObjectAllocationError{Kind: stage.String() + " shader"}
	}
	ctx.ShaderSource(sh, src)
	ctx.CompileShader(sh)
	if !ctx.ShaderCompiled(sh) {
		log := ctx.ShaderInfoLog(sh)
		ctx.DeleteShader(sh)
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

// Program returns the underlying program handle.
func (p *Pipeline) Program() Program { return p.prog }

// Activate makes p the program used by subsequent uniform and draw calls.
// The current program is global context state so callers must activate
// at the start of every render pass.
func (p *Pipeline) Activate() {
	p.ctx.UseProgram(p.prog)
}

// CacheUniforms resolves and stores the locations of names. Names the linked
// program does not expose are logged and left to per-call lookup, since
// GLSL linkers drop uniforms that do not contribute to the output.
func (p *Pipeline) CacheUniforms(names ...string) {
	for _, name := range names {
		loc := p.ctx.UniformLocation(p.prog, name)
		if loc < 0 {
			p.log.Warn("uniform not active in linked program", slog.String("uniform", name))
			continue
		}
		p.uniforms[name] = loc
	}
}

// Uniforms returns the names of the program's active uniforms.
func (p *Pipeline) Uniforms() []string {
	return p.ctx.ActiveUniforms(p.prog)
}

func (p *Pipeline) uniform(name string) (Uniform, error) {
	if loc, ok := p.uniforms[name]; ok {
		return loc, nil
	}
	loc := p.ctx.UniformLocation(p.prog, name)
	if loc < 0 {
		return loc, &UnknownUniformError{Name: name}
	}
	return loc, nil
}

// SetMat4 sets the mat4 uniform name to the column major matrix m.
func (p *Pipeline) SetMat4(name string, m *[16]float32) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	p.ctx.UniformMatrix4fv(loc, m)
	return nil
}

// SetVec3 sets the vec3 uniform name.
func (p *Pipeline) SetVec3(name string, v [3]float32) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	p.ctx.Uniform3f(loc, v[0], v[1], v[2])
	return nil
}

// SetInt sets the int or sampler uniform name.
func (p *Pipeline) SetInt(name string, v int32) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	p.ctx.Uniform1i(loc, v)
	return nil
}

// AttribLocation returns the index of the active attribute name.
func (p *Pipeline) AttribLocation(name string) (uint32, error) {
	loc := p.ctx.AttribLocation(p.prog, name)
	if loc < 0 {
		return 0, &UnknownAttributeError{Name: name}
	}
	return uint32(loc), nil
}

// Release deletes the program. p must not be used afterwards.
func (p *Pipeline) Release() {
	if p.prog == 0 {
		return
	}
	p.ctx.DeleteProgram(p.prog)
	p.prog = 0
	p.uniforms = nil
}
