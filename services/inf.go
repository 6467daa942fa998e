package services

import (
	"context"

	"github.com/qtraffics/qtmon/ex"
)

type LifeCycle interface {
	Start(ctx context.Context) error
	Close() error
}

type PreStarter interface {
	PreStart(ctx context.Context) error
}

type PostStarter interface {
	PostStart(ctx context.Context) error
}

type PreCloser interface {
	PreClose() error
}

type PostCloser interface {
	PostClose() error
}

// Service is a LifeCycle with a name used in logs and errors.
type Service interface {
	LifeCycle
	Type() string
}

// Start executes the start sequence for a LifeCycle implementer.
// It calls PreStart (if implemented), Start, and PostStart (if implemented).
func Start(ctx context.Context, lf LifeCycle) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if pre, ok := lf.(PreStarter); ok {
		if err := pre.PreStart(ctx); err != nil {
			return ex.Cause(err, "PreStart")
		}
	}

	if err := lf.Start(ctx); err != nil {
		return ex.Cause(err, "Start")
	}

	if post, ok := lf.(PostStarter); ok {
		if err := post.PostStart(ctx); err != nil {
			return ex.Cause(err, "PostStart")
		}
	}

	return nil
}

// Close executes the close sequence for a LifeCycle implementer.
// It calls PreClose (if implemented), Close, and PostClose (if implemented).
func Close(lf LifeCycle) error {
	if pre, ok := lf.(PreCloser); ok {
		if err := pre.PreClose(); err != nil {
			return ex.Cause(err, "PreClose")
		}
	}

	if err := lf.Close(); err != nil {
		return ex.Cause(err, "Close")
	}

	if post, ok := lf.(PostCloser); ok {
		if err := post.PostClose(); err != nil {
			return ex.Cause(err, "PostClose")
		}
	}

	return nil
}

// StartAll starts services in order. When one fails, the ones already
// started are closed in reverse order and the start error is returned.
func StartAll(ctx context.Context, list ...Service) error {
	for i, s := range list {
		if err := Start(ctx, s); err != nil {
			_ = CloseAll(list[:i]...)
			return ex.Zone(s.Type(), err)
		}
	}
	return nil
}

// CloseAll closes services in reverse order and joins every error.
func CloseAll(list ...Service) error {
	var errs ex.JoinError
	for i := len(list) - 1; i >= 0; i-- {
		errs.NewError(ex.Zone(list[i].Type(), Close(list[i])))
	}
	return errs.Err()
}
