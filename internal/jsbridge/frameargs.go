package jsbridge

import "math"

// bigInt is an argument the glue converts with ToBigInt64, which rejects a
// plain Number. It is turned into a JavaScript BigInt before the call.
type bigInt int64

// fftFrameArgs returns the scalar arguments of new_fft_frame after the
// sample buffer: seconds u64, nanos u32, freq i64, sample_rate i32.
func fftFrameArgs(seconds int64, nanos int32, centerFreq, sampleRate float64) []any {
	return []any{
		bigInt(seconds),
		uint32(nanos),
		bigInt(math.Round(centerFreq)),
		int32(math.Round(sampleRate)),
	}
}
