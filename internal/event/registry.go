package event

import (
	"github.com/dshills/nightloop/internal/container/darray"
	"github.com/dshills/nightloop/internal/memory"
)

// registrant is one (recipient, handler) pair.
type registrant struct {
	recipient Recipient
	handler   Handler
}

// registry holds the per-code registrant lists. Lists are created lazily on
// first registration and live until the registry is cleared.
type registry struct {
	alloc    *memory.Allocator
	capacity uint64
	lists    []*darray.Array[registrant]
	live     int
}

func newRegistry(alloc *memory.Allocator, capacity uint64) *registry {
	return &registry{
		alloc:    alloc,
		capacity: capacity,
		lists:    memory.AllocSlice[*darray.Array[registrant]](alloc, MaxCodes, memory.TagEvent),
	}
}

// list returns the list for code, or nil if none exists.
func (r *registry) list(code Code) *darray.Array[registrant] {
	return r.lists[code]
}

// ensure returns the list for code, creating it if needed.
func (r *registry) ensure(code Code) *darray.Array[registrant] {
	l := r.lists[code]
	if l == nil {
		l = darray.Reserve[registrant](r.alloc, r.capacity)
		r.lists[code] = l
	}
	return l
}

// add appends a registrant unless recipient already holds one for code.
func (r *registry) add(code Code, recipient Recipient, h Handler) bool {
	l := r.ensure(code)
	for _, reg := range l.Items() {
		if reg.recipient == recipient {
			return false
		}
	}
	l.Push(registrant{recipient: recipient, handler: h})
	r.live++
	return true
}

// remove deletes the first exact (recipient, handler) match for code.
func (r *registry) remove(code Code, recipient Recipient, h Handler) bool {
	l := r.lists[code]
	if l == nil {
		return false
	}
	for i, reg := range l.Items() {
		if reg.recipient == recipient && reg.handler == h {
			l.PopAt(uint64(i))
			r.live--
			return true
		}
	}
	return false
}

// count returns the number of registrants for code.
func (r *registry) count(code Code) int {
	if l := r.lists[code]; l != nil {
		return int(l.Len())
	}
	return 0
}

// codes returns the number of codes with a list.
func (r *registry) codes() int {
	n := 0
	for _, l := range r.lists {
		if l != nil {
			n++
		}
	}
	return n
}

// clear destroys every list still present and releases the table.
func (r *registry) clear() {
	for i, l := range r.lists {
		if l != nil {
			l.Destroy()
			r.lists[i] = nil
		}
	}
	memory.FreeSlice(r.alloc, r.lists, MaxCodes, memory.TagEvent)
	r.lists = nil
	r.live = 0
}
