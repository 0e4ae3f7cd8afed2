//go:build js && wasm

// Package jsbridge binds the bootstrap interfaces to the browser: the DOM,
// the wasm-bindgen rendering module and JavaScript promises.
package jsbridge

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"
)

// JSError is a JavaScript exception or promise rejection.
type JSError struct {
	Value js.Value
}

func (e *JSError) Error() string {
	return describe(e.Value)
}

// describe renders a value the way string concatenation does in JavaScript.
func describe(v js.Value) string {
	if v.IsUndefined() {
		return "undefined"
	}
	return js.Global().Get("String").Invoke(v).String()
}

// Await blocks until promise settles or ctx is done. It must not be called
// from inside a js.FuncOf callback.
func Await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	var onFulfilled, onRejected js.Func
	var once sync.Once
	release := func() {
		once.Do(func() {
			onFulfilled.Release()
			onRejected.Release()
		})
	}
	onFulfilled = js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{value: v}
		release()
		return nil
	})
	onRejected = js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{err: &JSError{Value: v}}
		release()
		return nil
	})

	if err := catch(func() { promise.Call("then", onFulfilled, onRejected) }); err != nil {
		release()
		return js.Undefined(), err
	}

	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		// the callbacks release themselves once the promise settles
		return js.Undefined(), ctx.Err()
	}
}

// catch turns a panic raised by a syscall/js call into an error.
func catch(f func()) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case js.Error:
			err = &JSError{Value: r.Value}
		case error:
			err = r
		default:
			err = fmt.Errorf("%v", r)
		}
	}()
	f()
	return nil
}
