package bootstrap

// Timestamp is the acquisition time of a frame.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Frame is one spectral snapshot as returned by the receiver.
type Frame struct {
	Samples    []float32
	Timestamp  Timestamp
	CenterFreq float64
	SampleRate float64
}

// samplesBuffer copies the samples into a fixed width buffer owned by the
// caller, so the handle never aliases the decoded response.
func (f *Frame) samplesBuffer() []float32 {
	buf := make([]float32, len(f.Samples))
	copy(buf, f.Samples)
	return buf
}
