package gfx

import (
	"fmt"
	"strings"
)

// ContextErrorReason enumerates the ways context acquisition can fail.
type ContextErrorReason uint8

const (
	MissingWindow ContextErrorReason = iota + 1
	MissingDocument
	MissingElement
	NotCanvas
	ContextRefused
)

func (r ContextErrorReason) String() string {
	switch r {
	case MissingWindow:
		return "missing window"
	case MissingDocument:
		return "missing document"
	case MissingElement:
		return "missing element"
	case NotCanvas:
		return "element is not a canvas"
	case ContextRefused:
		return "context creation refused"
	}
	return fmt.Sprintf("ContextErrorReason(%d)", uint8(r))
}

// ContextError is returned when a drawing context cannot be acquired.
type ContextError struct {
	CanvasID string
	Reason   ContextErrorReason
	// Err is an optional underlying host error.
	Err error
}

func (e *ContextError) Error() string {
	msg := fmt.Sprintf("canvas %q: %s", e.CanvasID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContextError) Unwrap() error { return e.Err }

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

const (
	VertexStage ShaderStage = iota + 1
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%d)", uint8(s))
}

func (s ShaderStage) enum() Enum {
	if s == FragmentStage {
		return FragmentShader
	}
	return VertexShader
}

// ShaderCompileError carries the compiler diagnostics of a failed stage.
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compiling %s shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

// ShaderLinkError carries the linker diagnostics of a failed program link.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return "linking shader program: " + strings.TrimSpace(e.Log)
}

// BufferAllocationError is returned when the context cannot create a buffer.
type BufferAllocationError struct {
	// Name describes the buffer contents, i.e. "positions".
	Name string
}

func (e *BufferAllocationError) Error() string {
	return "allocating " + e.Name + " buffer"
}

// ObjectAllocationError is returned when the context cannot create a shader,
// program or texture object.
type ObjectAllocationError struct {
	Kind string
}

func (e *ObjectAllocationError) Error() string {
	return "allocating " + e.Kind + " object"
}

// UnknownUniformError is returned when a program has no active uniform by the given name.
type UnknownUniformError struct {
	Name string
}

func (e *UnknownUniformError) Error() string {
	return fmt.Sprintf("unknown uniform %q", e.Name)
}

// UnknownAttributeError is returned when a program has no active attribute by the given name.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}
