package pos

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanRecorder struct {
	mu    sync.Mutex
	codes []string
}

func (r *scanRecorder) record(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func (r *scanRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes...)
}

func feed(d *BarcodeDecoder, code string, start time.Time, gap time.Duration) time.Time {
	at := start
	for _, r := range code {
		d.Key(r, at)
		at = at.Add(gap)
	}
	return at
}

func TestBarcodeDecoder_ScannerBurstWithEnter(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	start := time.Now()
	at := feed(d, "37010001", start, 40*time.Millisecond)
	d.Enter(at)

	codes := rec.snapshot()
	require.Len(t, codes, 1)
	assert.Equal(t, "37010001", codes[0])
}

func TestBarcodeDecoder_HumanTypingEmitsNothing(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	// Keystrokes spaced well beyond the inter-key threshold reset the
	// buffer every time, so it never reaches the minimum length.
	start := time.Now()
	at := feed(d, "37010001", start, 150*time.Millisecond)
	d.Enter(at.Add(150 * time.Millisecond))

	// Let the inactivity timer fire too; it must not emit either.
	time.Sleep(FlushTimeout + 50*time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestBarcodeDecoder_InactivityFlushWithoutEnter(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	feed(d, "45021", time.Now(), 10*time.Millisecond)

	// No Enter arrives; the fallback timer must flush the burst.
	time.Sleep(FlushTimeout + 50*time.Millisecond)

	codes := rec.snapshot()
	require.Len(t, codes, 1)
	assert.Equal(t, "45021", codes[0])
}

func TestBarcodeDecoder_ShortBurstDiscarded(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	at := feed(d, "12", time.Now(), 10*time.Millisecond)
	d.Enter(at)

	assert.Empty(t, rec.snapshot())
}

func TestBarcodeDecoder_StaleBufferDiscardedBeforeNewBurst(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	start := time.Now()
	d.Key('X', start)

	// New burst starts long after the stray keystroke; the stale
	// character must not leak into the emitted code.
	at := feed(d, "123", start.Add(200*time.Millisecond), 10*time.Millisecond)
	d.Enter(at)

	codes := rec.snapshot()
	require.Len(t, codes, 1)
	assert.Equal(t, "123", codes[0])
}

func TestBarcodeDecoder_DelayedEnterStillFlushesBurst(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	// Some scanners pause before the terminating Enter. As long as it
	// beats the inactivity flush, the burst must still emit once.
	start := time.Now()
	at := feed(d, "37010001", start, 40*time.Millisecond)
	d.Enter(at.Add(80 * time.Millisecond))

	codes := rec.snapshot()
	require.Len(t, codes, 1)
	assert.Equal(t, "37010001", codes[0])
}

func TestBarcodeDecoder_EnterOnEmptyBufferEmitsNothing(t *testing.T) {
	rec := &scanRecorder{}
	d := NewBarcodeDecoder(rec.record)
	defer d.Close()

	d.Enter(time.Now())

	assert.Empty(t, rec.snapshot())
}
