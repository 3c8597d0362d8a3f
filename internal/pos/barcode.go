package pos

import (
	"sync"
	"time"
)

// Barcode decoder timing. A hardware scanner emulates a keyboard and
// types an entire code in a few tens of milliseconds; a human cannot.
// These thresholds are tuned against real scanner hardware profiles
// and must not be changed casually.
const (
	// InterKeyThreshold is the maximum gap between two keystrokes of
	// one scanner burst. A larger gap marks the buffer as stale.
	InterKeyThreshold = 50 * time.Millisecond

	// FlushTimeout force-flushes the buffer after this much
	// inactivity, for scanners that do not send a terminating Enter.
	FlushTimeout = 100 * time.Millisecond

	// MinCodeLength is the shortest buffer that can be emitted as a
	// scan event. Shorter bursts are discarded silently.
	MinCodeLength = 3
)

// BarcodeDecoder turns a raw keystroke stream into discrete scan
// events. Keystrokes arriving faster than InterKeyThreshold accumulate
// into a buffer; Enter or FlushTimeout of silence flushes it. Ordinary
// typing never reaches MinCodeLength between gaps, so it never emits.
type BarcodeDecoder struct {
	mu      sync.Mutex
	buf     []rune
	lastKey time.Time
	timer   *time.Timer
	onScan  func(code string)
	closed  bool
}

// NewBarcodeDecoder creates a decoder that calls onScan once per
// recognized burst. Callbacks run serially.
func NewBarcodeDecoder(onScan func(code string)) *BarcodeDecoder {
	return &BarcodeDecoder{onScan: onScan}
}

// Key feeds one printable keystroke observed at the given time. Pass
// the wall clock in production; tests can pass synthetic timestamps.
func (d *BarcodeDecoder) Key(r rune, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	// A gap longer than the inter-key threshold means whatever was
	// buffered is not part of this burst.
	if len(d.buf) > 0 && at.Sub(d.lastKey) > InterKeyThreshold {
		d.buf = d.buf[:0]
	}

	d.buf = append(d.buf, r)
	d.lastKey = at
	d.resetTimerLocked()
}

// Enter feeds the terminating Enter keystroke, forcing an immediate
// flush under the minimum-length rule. The inter-key staleness check
// applies to printable keystrokes only; a scanner may send Enter any
// time before the inactivity flush fires.
func (d *BarcodeDecoder) Enter(at time.Time) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.stopTimerLocked()
	code, ok := d.takeLocked()
	d.mu.Unlock()

	if ok {
		d.onScan(code)
	}
}

// Close stops the inactivity timer and drops any buffered input.
func (d *BarcodeDecoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopTimerLocked()
	d.buf = nil
}

// resetTimerLocked arms the inactivity flush.
func (d *BarcodeDecoder) resetTimerLocked() {
	d.stopTimerLocked()
	d.timer = time.AfterFunc(FlushTimeout, d.flushOnTimeout)
}

func (d *BarcodeDecoder) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *BarcodeDecoder) flushOnTimeout() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	code, ok := d.takeLocked()
	d.mu.Unlock()

	if ok {
		d.onScan(code)
	}
}

// takeLocked drains the buffer, returning it as a code when it meets
// the minimum length.
func (d *BarcodeDecoder) takeLocked() (string, bool) {
	if len(d.buf) < MinCodeLength {
		d.buf = d.buf[:0]
		return "", false
	}
	code := string(d.buf)
	d.buf = d.buf[:0]
	return code, true
}
