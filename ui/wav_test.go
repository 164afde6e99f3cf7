package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/youpy/go-wav"
)

func TestRecorderRoundTrip(t *testing.T) {
	r := NewRecorder(44100)
	r.Push(0)
	r.Push(0.5)
	r.Push(-0.5)
	r.Push(2) // clipped to full scale

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		t.Fatal(err)
	}
	if format.NumChannels != 1 || format.SampleRate != 44100 || format.BitsPerSample != 16 {
		t.Errorf("format = %+v, want 16-bit mono 44.1kHz", format)
	}

	samples, err := reader.ReadSamples(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4", len(samples))
	}
	if v := reader.IntValue(samples[3], 0); v != 32767 {
		t.Errorf("clipped sample = %d, want 32767", v)
	}
}
