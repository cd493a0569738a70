package flight

import (
	"sync"
)

// SampleBuffer is a thread-safe FIFO of accepted samples awaiting
// persistence. Samples are only ever appended in tick order and drained from
// the front, so persisted order matches capture order. The zero value is
// ready to use.
type SampleBuffer struct {
	mu      sync.Mutex
	samples []Sample
}

// Append adds a sample to the back of the buffer.
func (b *SampleBuffer) Append(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, s)
}

// Peek returns a copy of up to n samples from the front of the buffer
// without removing them. Returns nil if the buffer is empty.
func (b *SampleBuffer) Peek(n int) []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) == 0 || n <= 0 {
		return nil
	}
	n = min(n, len(b.samples))

	batch := make([]Sample, n)
	copy(batch, b.samples[:n])
	return batch
}

// Discard removes up to n samples from the front of the buffer. It is called
// after a batch returned by Peek has been durably stored; on a storage
// failure the caller simply skips the Discard and the samples are retried on
// the next flush trigger.
func (b *SampleBuffer) Discard(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 {
		return
	}
	n = min(n, len(b.samples))
	b.samples = b.samples[n:]
}

// Len returns the current number of buffered samples.
func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Clear removes all samples from the buffer.
func (b *SampleBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
}
