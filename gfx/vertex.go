package gfx

const sizeofFloat32 = 4

// Attrib names a float attribute of Size components inside a vertex buffer.
type Attrib struct {
	Name string
	Size int
}

type attribBinding struct {
	buf    Buffer
	index  uint32
	size   int
	stride int
	offset int
}

// VertexLayout owns static vertex buffers and the attribute bindings that
// read from them. Buffers are uploaded once by Add and never modified.
type VertexLayout struct {
	ctx      Context
	pipe     *Pipeline
	buffers  []Buffer
	bindings []attribBinding
}

// NewVertexLayout returns an empty layout whose attributes are resolved against p.
func NewVertexLayout(ctx Context, p *Pipeline) *VertexLayout {
	return &VertexLayout{ctx: ctx, pipe: p}
}

// Add uploads data to a new static buffer and binds attribs to it. When more
// than one attribute is given the data is interleaved in the given order and
// the stride and offsets are derived from the attribute sizes.
// name describes the buffer in errors.
func (vl *VertexLayout) Add(name string, data []float32, attribs ...Attrib) error {
	stride := 0
	for _, a := range attribs {
		stride += a.Size * sizeofFloat32
	}
	if len(attribs) == 1 {
		stride = 0 // Tightly packed.
	}
	buf, ok := vl.ctx.CreateBuffer()
	if !ok {
		return &BufferAllocationError{Name: name}
	}
	vl.buffers = append(vl.buffers, buf)
	vl.ctx.BindBuffer(ArrayBuffer, buf)
	vl.ctx.BufferData(ArrayBuffer, data, StaticDraw)
	offset := 0
	for _, a := range attribs {
		index, err := vl.pipe.AttribLocation(a.Name)
		if err != nil {
			return err
		}
		b := attribBinding{buf: buf, index: index, size: a.Size, stride: stride, offset: offset}
		vl.bindings = append(vl.bindings, b)
		vl.bind(b)
		offset += a.Size * sizeofFloat32
	}
	return nil
}

// Bind points every attribute back at its buffer. Attribute state is global
// to the context so it is rebound at the start of each render pass.
func (vl *VertexLayout) Bind() {
	for _, b := range vl.bindings {
		vl.bind(b)
	}
}

func (vl *VertexLayout) bind(b attribBinding) {
	vl.ctx.BindBuffer(ArrayBuffer, b.buf)
	vl.ctx.VertexAttribPointer(b.index, b.size, Float, false, b.stride, b.offset)
	vl.ctx.EnableVertexAttribArray(b.index)
}

// Release deletes all buffers owned by the layout.
func (vl *VertexLayout) Release() {
	for _, buf := range vl.buffers {
		vl.ctx.DeleteBuffer(buf)
	}
	vl.buffers = nil
	vl.bindings = nil
}
