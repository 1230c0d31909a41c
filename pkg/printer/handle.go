package printer

import (
	"context"
	"sync"
	"sync/atomic"
)

// Handle is a live, cached printer. Every document flushed through the same
// Handle goes out whole: flushes are serialized.
type Handle struct {
	address string
	printer Printer
	width   int
	filter  *TextFilter

	mu    sync.Mutex
	alive atomic.Bool
}

func newHandle(address string, p Printer, width int, filter *TextFilter) *Handle {
	h := &Handle{address: address, printer: p, width: width, filter: filter}
	h.alive.Store(true)
	return h
}

// Address returns the "host:port" key of the handle.
func (h *Handle) Address() string {
	return h.address
}

// Width returns the character width documents for this printer are laid out in.
func (h *Handle) Width() int {
	return h.width
}

// Alive reports the outcome of the last liveness probe or flush.
func (h *Handle) Alive() bool {
	return h.alive.Load()
}

// NewDocument starts an empty document sized for this printer.
func (h *Handle) NewDocument() *Document {
	return NewDocument(h.width, h.filter)
}

// Execute sends doc to the printer and clears it, whether or not the write
// succeeded.
func (h *Handle) Execute(ctx context.Context, doc *Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer doc.Clear()

	if doc.Len() == 0 {
		return nil
	}
	if err := h.printer.Print(ctx, doc.Bytes()); err != nil {
		h.alive.Store(false)
		return &FlushError{Address: h.address, Err: err}
	}
	h.alive.Store(true)
	return nil
}

// CheckConnection probes the printer now and records the result.
func (h *Handle) CheckConnection(ctx context.Context) (bool, error) {
	ok, err := h.printer.IsConnected(ctx)
	h.alive.Store(ok && err == nil)
	return h.alive.Load(), err
}
