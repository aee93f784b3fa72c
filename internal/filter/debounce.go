package filter

import "time"

// DebounceDelay is the quiet period after the last keystroke before search text propagates.
const DebounceDelay = 500 * time.Millisecond

// SearchBuffer holds search text that has been typed but not yet propagated.
// Each keystroke gets a sequence number; only the newest one can settle.
type SearchBuffer struct {
	text    string
	seq     uint64
	settled uint64
}

// NewSearchBuffer returns a buffer seeded with text that is considered settled.
func NewSearchBuffer(text string) SearchBuffer {
	return SearchBuffer{text: text}
}

// Type records new text and returns the sequence number its timer must carry.
func (b *SearchBuffer) Type(text string) uint64 {
	b.seq++
	b.text = text
	return b.seq
}

// Settle is called when the timer for seq fires. It yields the buffered text
// only if no keystroke happened since and the text has not already settled.
func (b *SearchBuffer) Settle(seq uint64) (string, bool) {
	if seq != b.seq || b.settled == seq {
		return "", false
	}
	b.settled = seq
	return b.text, true
}

// Flush settles the buffer immediately, e.g. when the user presses enter.
func (b *SearchBuffer) Flush() (string, bool) {
	return b.Settle(b.seq)
}

// Reset replaces the text without scheduling a propagation and invalidates pending timers.
func (b *SearchBuffer) Reset(text string) {
	b.seq++
	b.settled = b.seq
	b.text = text
}

// Text returns the buffered text.
func (b *SearchBuffer) Text() string {
	return b.text
}

// Pending reports whether buffered text is waiting to propagate.
func (b *SearchBuffer) Pending() bool {
	return b.seq != b.settled
}
