// Package scripting embeds a JavaScript engine for user-supplied
// document logic: page break predicates and dynamic per-page content.
package scripting

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script and returns its result as a Go value.
	Execute(ctx context.Context, script string) (interface{}, error)

	// Set binds a host value into the script's global scope.
	Set(name string, value interface{}) error
}

// GojaEngine implements Engine using the goja JavaScript runtime.
type GojaEngine struct {
	vm *goja.Runtime
}

// NewGojaEngine creates a new JavaScript engine.
func NewGojaEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

// Execute runs a script. The context can cancel long-running scripts.
func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("scripting: %w", err)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	return val.Export(), nil
}

// Set binds a host value into the global scope.
func (e *GojaEngine) Set(name string, value interface{}) error {
	return e.vm.Set(name, value)
}

// compileFunction evaluates src, which must be a function expression,
// and returns it as a callable.
func (e *GojaEngine) compileFunction(src string) (goja.Callable, error) {
	val, err := e.vm.RunString("(" + src + ")")
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}
	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("scripting: expected a function expression, got %s", val.ExportType())
	}
	return fn, nil
}
