package flight

import (
	"testing"
	"time"
)

func makeSamples(n int) []Sample {
	baseTime := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			Timestamp: baseTime.Add(time.Duration(i) * time.Second),
			Latitude:  -33.8688,
			Longitude: 151.2093,
		}
	}
	return samples
}

func TestSampleBuffer_FIFOOrder(t *testing.T) {
	var b SampleBuffer

	samples := makeSamples(7)
	for _, s := range samples {
		b.Append(s)
	}

	if size := b.Len(); size != len(samples) {
		t.Fatalf("Expected buffer size %d, got %d", len(samples), size)
	}

	batch := b.Peek(len(samples))
	if len(batch) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(batch))
	}
	for i, s := range batch {
		if !s.Timestamp.Equal(samples[i].Timestamp) {
			t.Errorf("Sample %d: expected timestamp %v, got %v", i, samples[i].Timestamp, s.Timestamp)
		}
	}
}

func TestSampleBuffer_PeekLimit(t *testing.T) {
	var b SampleBuffer

	for _, s := range makeSamples(12) {
		b.Append(s)
	}

	batch := b.Peek(10)
	if len(batch) != 10 {
		t.Errorf("Expected 10 samples from Peek, got %d", len(batch))
	}

	// Peek must not remove anything
	if size := b.Len(); size != 12 {
		t.Errorf("Expected buffer size 12 after Peek, got %d", size)
	}
}

func TestSampleBuffer_DiscardAfterStore(t *testing.T) {
	var b SampleBuffer

	samples := makeSamples(12)
	for _, s := range samples {
		b.Append(s)
	}

	batch := b.Peek(10)
	b.Discard(len(batch))

	if size := b.Len(); size != 2 {
		t.Fatalf("Expected 2 samples remaining, got %d", size)
	}

	// Remainder must be the two newest samples, still in order
	rest := b.Peek(10)
	if len(rest) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(rest))
	}
	for i, s := range rest {
		if !s.Timestamp.Equal(samples[10+i].Timestamp) {
			t.Errorf("Sample %d: expected timestamp %v, got %v", i, samples[10+i].Timestamp, s.Timestamp)
		}
	}
}

func TestSampleBuffer_EdgeCases(t *testing.T) {
	var b SampleBuffer

	if b.Peek(10) != nil {
		t.Error("Peek on empty buffer should return nil")
	}
	if b.Len() != 0 {
		t.Error("Empty buffer should have size 0")
	}

	b.Discard(5) // discarding from an empty buffer is a no-op
	if b.Len() != 0 {
		t.Error("Discard on empty buffer should leave size 0")
	}

	for _, s := range makeSamples(3) {
		b.Append(s)
	}

	if got := b.Peek(0); got != nil {
		t.Errorf("Peek(0) should return nil, got %d samples", len(got))
	}

	b.Discard(100) // over-discard clamps to buffer size
	if b.Len() != 0 {
		t.Errorf("Expected empty buffer after over-discard, got size %d", b.Len())
	}

	for _, s := range makeSamples(3) {
		b.Append(s)
	}
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Expected empty buffer after Clear, got size %d", b.Len())
	}
}
