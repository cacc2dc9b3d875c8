package gfx

import "errors"

// Acquire resolves the canvas named canvasID to a drawing context and sets the
// global state every shape expects: depth testing enabled with a
// less-or-equal comparison. No resources are allocated when it fails.
func Acquire(host Host, canvasID string) (Context, error) {
	if host == nil {
		return nil, &ContextError{CanvasID: canvasID, Reason: MissingWindow}
	}
	ctx, err := host.Canvas(canvasID)
	if err != nil {
		var cerr *ContextError
		if errors.As(err, &cerr) {
			return nil, err
		}
		return nil, &ContextError{CanvasID: canvasID, Reason: ContextRefused, Err: err}
	}
	if ctx == nil {
		return nil, &ContextError{CanvasID: canvasID, Reason: ContextRefused}
	}
	ctx.Enable(DepthTest)
	ctx.DepthFunc(LEqual)
	return ctx, nil
}
