package eval

import (
	"scopejs/value"
)

// InteractiveContext keeps a single Context alive across inputs, so that
// declarations of one line are visible to the next.
type InteractiveContext struct {
	Filename string
	ctx      *Context
}

func NewInteractiveContext(opts ...Option) (*InteractiveContext, error) {
	fn := "<stdin>"
	ctx, err := NewContext(append([]Option{WithFilename(fn)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &InteractiveContext{ctx.filename, ctx}, nil
}

func (ic *InteractiveContext) Context() *Context { return ic.ctx }

func (ic *InteractiveContext) Inspect(v value.Value) string {
	return value.Inspect(v)
}

// Run evaluates one input. Compile errors are returned as a list; a
// runtime error is returned as a list of one *Exception.
func (ic *InteractiveContext) Run(input string) (value.Value, []error) {
	program, errs := ic.ctx.Compile(ic.Filename, input)
	if len(errs) != 0 {
		return nil, errs
	}
	rv, err := ic.ctx.Eval(program)
	if err != nil {
		return nil, []error{err}
	}
	return rv, nil
}

func (ic *InteractiveContext) Close() { ic.ctx.Close() }
