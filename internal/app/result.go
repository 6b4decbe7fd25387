package app

// Result is the outcome of one remote call: a value or the reason it failed.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

func ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func failed[T any](err error) Result[T] { return Result[T]{Err: err} }
