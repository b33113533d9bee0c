// Package darray provides the engine's generic growable array.
//
// An Array keeps an explicit capacity, length and stride (bytes per element)
// and grows geometrically: a full array doubles its capacity on the next
// Push or InsertAt. Storage is obtained from a memory.Allocator and accounted
// under memory.TagArray, including a fixed header of three 64-bit words.
//
// Any operation that grows the array replaces its storage, so slices returned
// by Items must not be held across Push, InsertAt or Grow.
package darray

import (
	"iter"

	"github.com/dshills/nightloop/internal/memory"
)

const (
	// DefaultCapacity is the capacity of a new array and of a grown empty one.
	DefaultCapacity = 1

	// GrowthFactor multiplies the capacity on each resize.
	GrowthFactor = 2

	// MaxCapacity is the sanity bound checked when validation is enabled.
	MaxCapacity = 1 << 32

	// headerSize is the accounted size of the capacity/length/stride header.
	headerSize = 3 * 8
)

// Array is a generic growable array. The zero value is not usable; create
// arrays with New or Reserve.
type Array[T any] struct {
	alloc  *memory.Allocator
	data   []T
	length uint64
	stride uint64
}

// New creates an array with DefaultCapacity.
func New[T any](alloc *memory.Allocator) *Array[T] {
	return Reserve[T](alloc, DefaultCapacity)
}

// Reserve creates an empty array with room for capacity elements.
func Reserve[T any](alloc *memory.Allocator, capacity uint64) *Array[T] {
	if alloc == nil {
		alloc = memory.New()
	}
	a := &Array[T]{
		alloc:  alloc,
		stride: memory.SizeOf[T](),
	}
	a.data = memory.AllocBlock[T](alloc, headerSize, capacity, memory.TagArray)
	a.check("create")
	return a
}

// Destroy releases the array's storage. It is safe on a nil array.
// A destroyed array is empty with zero capacity; pushing to it allocates again.
func (a *Array[T]) Destroy() {
	if a == nil || a.data == nil {
		return
	}
	a.check("destroy")
	memory.FreeBlock(a.alloc, a.data, headerSize, a.Cap(), memory.TagArray)
	a.data = nil
	a.length = 0
}

// Len returns the number of elements in use.
func (a *Array[T]) Len() uint64 { return a.length }

// Cap returns the number of elements the storage holds.
func (a *Array[T]) Cap() uint64 { return uint64(len(a.data)) }

// Stride returns the size in bytes of one element.
func (a *Array[T]) Stride() uint64 { return a.stride }

// At returns the element at index. It panics if index is out of range.
func (a *Array[T]) At(index uint64) T {
	if index >= a.length {
		panic("darray: index out of range")
	}
	return a.data[index]
}

// Set replaces the element at index. It panics if index is out of range.
func (a *Array[T]) Set(index uint64, value T) {
	if index >= a.length {
		panic("darray: index out of range")
	}
	a.data[index] = value
}

// Items returns the elements in use. The slice aliases the storage.
func (a *Array[T]) Items() []T { return a.data[:a.length] }

// All iterates over index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[uint64, T] {
	return func(yield func(uint64, T) bool) {
		for i := uint64(0); i < a.length; i++ {
			if !yield(i, a.data[i]) {
				return
			}
		}
	}
}

// Clear sets the length to zero. Capacity is kept.
func (a *Array[T]) Clear() {
	clear(a.data[:a.length])
	a.length = 0
}

// SetLen sets the length directly. It fails if n exceeds the capacity.
func (a *Array[T]) SetLen(n uint64) bool {
	if n > a.Cap() {
		return false
	}
	if n < a.length {
		clear(a.data[n:a.length])
	}
	a.length = n
	return true
}

// Grow resizes the storage to GrowthFactor times the capacity, or to
// DefaultCapacity when the capacity is zero. Elements and length are kept.
func (a *Array[T]) Grow() {
	a.check("resize")

	old := a.Cap()
	newCap := uint64(DefaultCapacity)
	if old != 0 {
		newCap = old * GrowthFactor
	}
	if a.alloc.Validating() && newCap < a.length {
		panic(&memory.InvariantError{Op: "resize", Detail: "new capacity below length"})
	}

	data := memory.AllocBlock[T](a.alloc, headerSize, newCap, memory.TagArray)
	copy(data, a.data[:a.length])
	if a.data != nil {
		memory.FreeBlock(a.alloc, a.data, headerSize, old, memory.TagArray)
	}
	a.data = data
}

// Push appends value, growing first if the array is full.
func (a *Array[T]) Push(value T) {
	a.check("push")
	if a.length >= a.Cap() {
		a.Grow()
	}
	a.data[a.length] = value
	a.length++
}

// Pop removes and returns the last element. ok is false on an empty array.
func (a *Array[T]) Pop() (value T, ok bool) {
	a.check("pop")
	if a.length == 0 {
		return value, false
	}
	a.length--
	value = a.data[a.length]
	var zero T
	a.data[a.length] = zero
	return value, true
}

// PopAt removes and returns the element at index, shifting later elements
// left by one. ok is false, and the array unchanged, if index >= Len.
func (a *Array[T]) PopAt(index uint64) (value T, ok bool) {
	a.check("pop_at")
	if index >= a.length {
		return value, false
	}
	value = a.data[index]
	if index < a.length-1 {
		copy(a.data[index:a.length-1], a.data[index+1:a.length])
	}
	a.length--
	var zero T
	a.data[a.length] = zero
	return value, true
}

// InsertAt inserts value at index, shifting the elements at and after index
// right by one. index == Len appends. It fails, leaving the array unchanged,
// if index > Len.
func (a *Array[T]) InsertAt(index uint64, value T) bool {
	a.check("insert_at")
	if index > a.length {
		return false
	}
	if a.length >= a.Cap() {
		a.Grow()
	}
	if index < a.length {
		copy(a.data[index+1:a.length+1], a.data[index:a.length])
	}
	a.data[index] = value
	a.length++
	return true
}

// check verifies the header invariants when the allocator is validating.
func (a *Array[T]) check(op string) {
	if !a.alloc.Validating() {
		return
	}
	switch {
	case a.stride == 0:
		panic(&memory.InvariantError{Op: op, Detail: "stride is zero"})
	case a.length > a.Cap():
		panic(&memory.InvariantError{Op: op, Detail: "length exceeds capacity"})
	case a.Cap() >= MaxCapacity:
		panic(&memory.InvariantError{Op: op, Detail: "capacity exceeds sanity bound"})
	}
}
