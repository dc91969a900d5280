// Package lazy provides a value computed on first access and shared,
// read-only, afterwards.
package lazy

import "sync"

// Value holds the result of a loader that runs at most once. A failed load
// is remembered; callers see the same error on every Get.
type Value[T any] struct {
	once sync.Once
	load func() (T, error)
	v    T
	err  error
}

// New returns a Value that will call load on first Get.
func New[T any](load func() (T, error)) *Value[T] {
	return &Value[T]{load: load}
}

// Get returns the loaded value, running the loader if this is the first call.
func (l *Value[T]) Get() (T, error) {
	l.once.Do(func() {
		l.v, l.err = l.load()
		l.load = nil
	})
	return l.v, l.err
}
