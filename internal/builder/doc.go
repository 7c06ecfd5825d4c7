// Package builder drives a compiled plan to completion.
//
// A Builder is a single-use, cooperatively cancellable state machine.
// Execution is fully synchronous on the caller's goroutine; suspension
// points exist only between plan units, never inside an action's Run.
// The same machine serves build mode, which mutates the scene, and
// validate mode, which is guaranteed free of side effects.
package builder
