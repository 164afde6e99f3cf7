package ui

import (
	"github.com/gordonklaus/portaudio"
)

const sampleRate = 44100

// Audio moves mixed samples from the emulation goroutine to the portaudio
// callback through a buffered channel. When the emulation runs ahead,
// excess samples are dropped; when it falls behind, the callback pads
// with silence.
type Audio struct {
	stream  *portaudio.Stream
	channel chan float32
}

func NewAudio() *Audio {
	return &Audio{channel: make(chan float32, sampleRate)}
}

func (a *Audio) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, 0, a.callback)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	a.stream = stream
	return nil
}

func (a *Audio) Stop() error {
	defer portaudio.Terminate()
	return a.stream.Close()
}

// SampleRate is the rate the APU should produce samples at.
func (a *Audio) SampleRate() float64 {
	return sampleRate
}

// Push queues one sample, dropping it if the buffer is full.
func (a *Audio) Push(sample float32) {
	select {
	case a.channel <- sample:
	default:
	}
}

func (a *Audio) callback(out []float32) {
	for i := range out {
		select {
		case sample := <-a.channel:
			out[i] = sample
		default:
			out[i] = 0
		}
	}
}
