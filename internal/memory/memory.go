// Package memory provides the engine's tag-accounted allocator.
//
// The allocator keeps aggregate statistics only: a running byte total plus a
// byte total and allocation count per Tag. It keeps no per-block metadata, so
// Free must be called with the same size and tag that were passed to Alloc;
// a mismatch silently skews the accounting.
//
// The allocator is not safe for concurrent use.
package memory

import (
	"unsafe"

	"github.com/dshills/nightloop/internal/logging"
)

// Binary size units.
const (
	KiB uint64 = 1 << 10
	MiB uint64 = 1 << 20
	GiB uint64 = 1 << 30
)

// Tag is a caller-chosen category used for memory accounting.
type Tag uint8

const (
	// TagUnknown is reserved; using it logs a warning.
	TagUnknown Tag = iota
	TagArena
	TagEngine
	TagGame
	TagRender
	TagAudio
	TagString
	TagArray
	TagTexture
	TagMesh
	TagShader
	TagEvent
	TagInput

	// TagMax is the number of tags.
	TagMax
)

var tagNames = [TagMax]string{
	TagUnknown: "UNKNOWN",
	TagArena:   "ARENA",
	TagEngine:  "ENGINE",
	TagGame:    "GAME",
	TagRender:  "RENDER",
	TagAudio:   "AUDIO",
	TagString:  "STRING",
	TagArray:   "ARRAY",
	TagTexture: "TEXTURE",
	TagMesh:    "MESH",
	TagShader:  "SHADER",
	TagEvent:   "EVENT",
	TagInput:   "INPUT",
}

// String returns the tag name.
func (t Tag) String() string {
	if t < TagMax {
		return tagNames[t]
	}
	return "INVALID"
}

// Stats is a snapshot of the allocator's accounting.
type Stats struct {
	Total      uint64
	ByTag      [TagMax]uint64
	CountByTag [TagMax]uint64
}

// Backing supplies raw memory to the allocator.
type Backing interface {
	Allocate(size uint64) []byte
	Release(block []byte)
}

// heapBacking allocates from the Go heap.
type heapBacking struct{}

func (heapBacking) Allocate(size uint64) []byte { return make([]byte, size) }
func (heapBacking) Release([]byte)              {}

// Allocator is the tag-accounted allocator.
type Allocator struct {
	stats       Stats
	budget      uint64
	backing     Backing
	logger      *logging.Logger
	validate    bool
	initialized bool
	overBudget  bool
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithBacking sets the raw memory source.
func WithBacking(b Backing) Option {
	return func(a *Allocator) {
		if b != nil {
			a.backing = b
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithValidation enables invariant checking in the allocator and in
// containers built on it.
func WithValidation(enabled bool) Option {
	return func(a *Allocator) {
		a.validate = enabled
	}
}

// New creates an allocator. It must be initialized with Init before use by
// the engine, though allocation works regardless.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		backing: heapBacking{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("memory")
	return a
}

// Init starts the allocator with an advisory budget used for reporting.
func (a *Allocator) Init(budget uint64) error {
	if a.initialized {
		return ErrAlreadyInitialized
	}
	a.stats = Stats{}
	a.budget = budget
	a.overBudget = false
	a.initialized = true
	a.logger.Info("memory system init")
	return nil
}

// Kill stops the allocator and resets its accounting.
func (a *Allocator) Kill() {
	if !a.initialized {
		return
	}
	if a.stats.Total != 0 {
		a.logger.Debug("memory system kill with %d bytes still accounted", a.stats.Total)
	}
	a.stats = Stats{}
	a.initialized = false
	a.logger.Info("memory system kill")
}

// Initialized reports whether Init has been called without a matching Kill.
func (a *Allocator) Initialized() bool { return a.initialized }

// Validating reports whether invariant checking is enabled.
func (a *Allocator) Validating() bool { return a.validate }

// Budget returns the advisory budget passed to Init.
func (a *Allocator) Budget() uint64 { return a.budget }

// Alloc returns a zeroed block of size bytes accounted under tag.
func (a *Allocator) Alloc(size uint64, tag Tag) []byte {
	a.account(size, tag)
	block := a.backing.Allocate(size)
	Zero(block)
	return block
}

// Free releases a block. size and tag must match the original Alloc call.
func (a *Allocator) Free(block []byte, size uint64, tag Tag) {
	a.unaccount(size, tag)
	a.backing.Release(block)
}

// Stats returns a snapshot of the accounting.
func (a *Allocator) Stats() Stats { return a.stats }

// TagStats returns the byte total and allocation count for tag.
func (a *Allocator) TagStats(tag Tag) (bytes, count uint64) {
	if tag >= TagMax {
		return 0, 0
	}
	return a.stats.ByTag[tag], a.stats.CountByTag[tag]
}

func (a *Allocator) account(size uint64, tag Tag) {
	tag = a.checkTag(tag)
	a.stats.Total += size
	a.stats.ByTag[tag] += size
	a.stats.CountByTag[tag]++

	if a.budget > 0 && a.stats.Total > a.budget && !a.overBudget {
		a.overBudget = true
		a.logger.Debug("allocations exceed advisory budget: %d > %d bytes", a.stats.Total, a.budget)
	}
}

func (a *Allocator) unaccount(size uint64, tag Tag) {
	tag = a.checkTag(tag)
	if a.validate {
		if a.stats.ByTag[tag] < size || a.stats.CountByTag[tag] == 0 {
			panic(&InvariantError{Op: "free", Detail: "release of " + tag.String() + " exceeds accounted bytes"})
		}
	}
	a.stats.Total -= size
	a.stats.ByTag[tag] -= size
	a.stats.CountByTag[tag]--
	if a.stats.Total <= a.budget {
		a.overBudget = false
	}
}

func (a *Allocator) checkTag(tag Tag) Tag {
	if tag >= TagMax {
		if a.validate {
			panic(&InvariantError{Op: "tag", Detail: "tag out of range"})
		}
		tag = TagUnknown
	}
	if tag == TagUnknown {
		a.logger.Warn("allocation using tag UNKNOWN")
	}
	return tag
}

// SizeOf returns the stride of T in bytes.
func SizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// AllocSlice returns a zeroed slice of n elements of T accounted as
// n*SizeOf[T]() bytes under tag.
func AllocSlice[T any](a *Allocator, n uint64, tag Tag) []T {
	return AllocBlock[T](a, 0, n, tag)
}

// FreeSlice releases a slice obtained from AllocSlice with the same n and tag.
func FreeSlice[T any](a *Allocator, s []T, n uint64, tag Tag) {
	FreeBlock(a, s, 0, n, tag)
}

// AllocBlock is AllocSlice with header extra bytes of bookkeeping accounted
// alongside the elements, for containers that carry their own header.
func AllocBlock[T any](a *Allocator, header, n uint64, tag Tag) []T {
	a.account(header+n*SizeOf[T](), tag)
	return make([]T, n)
}

// FreeBlock releases a block obtained from AllocBlock with the same header,
// n and tag.
func FreeBlock[T any](a *Allocator, s []T, header, n uint64, tag Tag) {
	a.unaccount(header+n*SizeOf[T](), tag)
	clear(s)
}

// Zero clears block and returns it.
func Zero(block []byte) []byte {
	clear(block)
	return block
}

// Copy copies src into dst. The ranges must not overlap; use Move otherwise.
func Copy(dst, src []byte) []byte {
	copy(dst, src)
	return dst
}

// Move copies src into dst with overlap-safe semantics.
func Move(dst, src []byte) []byte {
	copy(dst, src)
	return dst
}

// Set fills block with value.
func Set(block []byte, value byte) []byte {
	for i := range block {
		block[i] = value
	}
	return block
}
