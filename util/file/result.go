package file

// ReadResult represents outcome of a read operation.
//
// If Success is true, Data holds the result, otherwise Err holds the reason of failure.
type ReadResult[T any] struct {
	Success bool
	Data    T
	Err     error
}

// ok returns successful read result with <data>
func ok[T any](data T) ReadResult[T] {
	return ReadResult[T]{Success: true, Data: data}
}

// fail returns failed read result with <err>
func fail[T any](err error) ReadResult[T] {
	return ReadResult[T]{Err: err}
}
