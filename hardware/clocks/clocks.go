package clocks

const Mhz = 1000000

// luminance sampling rates from ITU-R BT.601. the wide variants sample at a
// higher rate to keep the same number of lines at the 16:9 aspect ratio
const (
	Sampling     = 13.5 * Mhz
	SamplingWide = 18.0 * Mhz
)

// word rates on the deserialized parallel interface. the 4:2:2 families
// multiplex two words per sample period and the 4:4:4:4 family multiplexes
// four
const (
	Words422     = Sampling * 2
	Words422Wide = SamplingWide * 2
	Words4444    = Sampling * 4
)
