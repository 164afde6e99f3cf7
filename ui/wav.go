package ui

import (
	"os"
	"sync"

	"github.com/youpy/go-wav"
)

// maxRecordedSamples caps a recording at ten minutes so a forgotten
// session does not eat memory without bound.
const maxRecordedSamples = 10 * 60 * sampleRate

// Recorder accumulates the session's audio and writes it out as a
// 16-bit mono WAV file when the window closes.
type Recorder struct {
	mu      sync.Mutex
	rate    uint32
	samples []float32
}

func NewRecorder(rate uint32) *Recorder {
	return &Recorder{rate: rate}
}

// Push appends one sample.
func (r *Recorder) Push(sample float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) < maxRecordedSamples {
		r.samples = append(r.samples, sample)
	}
}

// Save writes everything recorded so far to path.
func (r *Recorder) Save(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(len(r.samples)), 1, r.rate, 16)
	samples := make([]wav.Sample, len(r.samples))
	for i, s := range r.samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int(s * 32767)
		samples[i].Values[0] = v
	}
	return w.WriteSamples(samples)
}
