package event

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Code identifies an event kind.
type Code uint16

const (
	// MaxCodes is the size of the code table. Codes must be below it.
	MaxCodes = 8192

	// UserCodeBase is the first code available to games.
	UserCodeBase Code = 256
)

// Valid reports whether c fits in the code table.
func (c Code) Valid() bool {
	return c < MaxCodes
}

// IsUser reports whether c is in the game-defined range.
func (c Code) IsUser() bool {
	return c >= UserCodeBase && c < MaxCodes
}

// Recipient is an opaque, stable identity used to key registrations.
// The zero Recipient is the anonymous engine sender.
type Recipient struct {
	id uuid.UUID
}

// NewRecipient returns a fresh identity.
func NewRecipient() Recipient {
	return Recipient{id: uuid.New()}
}

// IsZero reports whether r is the zero Recipient.
func (r Recipient) IsZero() bool {
	return r.id == uuid.Nil
}

// String returns the identity as a UUID string, or "engine" for the zero value.
func (r Recipient) String() string {
	if r.IsZero() {
		return "engine"
	}
	return r.id.String()
}

// Envelope is what a handler receives for one emission.
type Envelope struct {
	// Code is the emitted code.
	Code Code

	// Sender is the emitting identity; zero for the engine.
	Sender Recipient

	// Recipient is the identity the handler was registered under.
	Recipient Recipient

	// Payload is the emitted value. Typed topics guarantee its dynamic type.
	Payload any
}

// Context is a raw 16-byte payload for untyped user codes. Accessors read
// and write little-endian values at element index i of the given width.
type Context [16]byte

// U8 returns byte i.
func (c *Context) U8(i int) uint8 { return c[i] }

// SetU8 sets byte i.
func (c *Context) SetU8(i int, v uint8) { c[i] = v }

// I8 returns byte i as a signed value.
func (c *Context) I8(i int) int8 { return int8(c[i]) }

// U16 returns the i-th 16-bit value.
func (c *Context) U16(i int) uint16 { return binary.LittleEndian.Uint16(c[i*2:]) }

// SetU16 sets the i-th 16-bit value.
func (c *Context) SetU16(i int, v uint16) { binary.LittleEndian.PutUint16(c[i*2:], v) }

// I16 returns the i-th 16-bit value as signed.
func (c *Context) I16(i int) int16 { return int16(c.U16(i)) }

// U32 returns the i-th 32-bit value.
func (c *Context) U32(i int) uint32 { return binary.LittleEndian.Uint32(c[i*4:]) }

// SetU32 sets the i-th 32-bit value.
func (c *Context) SetU32(i int, v uint32) { binary.LittleEndian.PutUint32(c[i*4:], v) }

// I32 returns the i-th 32-bit value as signed.
func (c *Context) I32(i int) int32 { return int32(c.U32(i)) }

// F32 returns the i-th 32-bit float.
func (c *Context) F32(i int) float32 { return math.Float32frombits(c.U32(i)) }

// SetF32 sets the i-th 32-bit float.
func (c *Context) SetF32(i int, v float32) { c.SetU32(i, math.Float32bits(v)) }

// U64 returns the i-th 64-bit value.
func (c *Context) U64(i int) uint64 { return binary.LittleEndian.Uint64(c[i*8:]) }

// SetU64 sets the i-th 64-bit value.
func (c *Context) SetU64(i int, v uint64) { binary.LittleEndian.PutUint64(c[i*8:], v) }

// F64 returns the i-th 64-bit float.
func (c *Context) F64(i int) float64 { return math.Float64frombits(c.U64(i)) }

// SetF64 sets the i-th 64-bit float.
func (c *Context) SetF64(i int, v float64) { c.SetU64(i, math.Float64bits(v)) }
