package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/methods/workspace"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/tliron/glsp"
)

// method wraps an LSP handler that returns (result, error) with middleware.
// It returns the function type protocol.Handler fields expect.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer recoverPanic(ctx, methodName, &err)
		defer endTick(s)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)
		logWarnings(req, methodName)

		if err != nil {
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return result, fmt.Errorf("%s: %w", methodName, err)
		}
		log.Debug("%s completed", methodName)
		return result, nil
	}
}

// notify wraps an LSP notification handler that returns only error
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer recoverPanic(ctx, methodName, &err)
		defer endTick(s)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		err = handler(req, params)
		logWarnings(req, methodName)

		if err != nil {
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}
		log.Debug("%s completed", methodName)
		return nil
	}
}

// noParam wraps an LSP handler that takes no params (like Shutdown)
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer recoverPanic(ctx, methodName, &err)

		req := types.NewRequestContext(s, ctx)
		err = handler(req)
		logWarnings(req, methodName)

		if err != nil {
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}
		return nil
	}
}

// recoverPanic keeps a handler panic from taking the server down. The
// result of a panicking method is left at its zero value.
func recoverPanic(ctx *glsp.Context, methodName string, err *error) {
	if r := recover(); r != nil {
		log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
		workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
		*err = fmt.Errorf("internal error in %s", methodName)
	}
}

// endTick closes the analysis tick of the request, so the next request
// reconciles the analyzer with any edits made in between.
func endTick(s types.ServerContext) {
	if ws := s.Workspace(); ws != nil {
		ws.Service.EndTick()
	}
}

func logWarnings(req *types.RequestContext, methodName string) {
	for _, w := range req.Warnings() {
		workspace.LogWarning(req.GLSP, "%s: %v", methodName, w)
	}
}
