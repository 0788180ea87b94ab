package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// MalgoCapturer implements Capturer using malgo
type MalgoCapturer struct {
	config CaptureConfig
	sleep  func(time.Duration)
}

// NewMalgoCapturer creates a new malgo-based audio capturer
func NewMalgoCapturer(config CaptureConfig) *MalgoCapturer {
	return &MalgoCapturer{config: config, sleep: time.Sleep}
}

// malgoRecording is a live capture on one malgo device
type malgoRecording struct {
	config       CaptureConfig
	sleep        func(time.Duration)
	malgoContext *malgo.AllocatedContext
	device       *malgo.Device
	buffer       *SampleBuffer
	format       SampleFormat
	channels     int
	rate         uint32

	stopOnce sync.Once
}

// Start opens the default capture device in its native format and begins
// appending decoded mono samples to a fresh buffer
func (m *MalgoCapturer) Start() (Recording, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	infos, err := malgoCtx.Devices(malgo.Capture)
	if err != nil || len(infos) == 0 {
		freeContext(malgoCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoInputDevice, err)
		}
		return nil, ErrNoInputDevice
	}

	rec := &malgoRecording{
		config:       m.config,
		sleep:        m.sleep,
		malgoContext: malgoCtx,
		buffer:       NewSampleBuffer(m.config.InitialCapacity),
	}

	// Format, channels and rate left at zero select the device's native values
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.PeriodSizeInFrames = m.config.PeriodFrames

	var callbacks malgo.DeviceCallbacks
	callbacks.Data = func(_, pInputSamples []byte, _ uint32) {
		rec.buffer.AppendFrames(pInputSamples, rec.format, rec.channels)
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		freeContext(malgoCtx)
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	rec.device = device

	rec.format = fromMalgoFormat(device.CaptureFormat())
	rec.channels = int(device.CaptureChannels())
	rec.rate = device.SampleRate()
	if rec.format == FormatUnknown || rec.channels <= 0 {
		device.Uninit()
		freeContext(malgoCtx)
		return nil, fmt.Errorf("%w: %v with %d channels", ErrUnsupportedFormat, device.CaptureFormat(), rec.channels)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		freeContext(malgoCtx)
		return nil, fmt.Errorf("failed to start device: %w", err)
	}

	return rec, nil
}

func (r *malgoRecording) Buffer() *SampleBuffer { return r.buffer }

func (r *malgoRecording) SampleRate() uint32 { return r.rate }

// Stop tears the device down first so no further writes can land, waits the
// flush grace, then drains under the buffer lock
func (r *malgoRecording) Stop() ([]float32, error) {
	var stopErr error
	r.stopOnce.Do(func() {
		if r.device != nil {
			stopErr = r.device.Stop()
			r.device.Uninit()
		}
		freeContext(r.malgoContext)
	})
	if stopErr != nil {
		// The stream is already uninitialized; keep what was captured
		stopErr = fmt.Errorf("failed to stop device: %w", stopErr)
	}

	if r.config.FlushGrace > 0 {
		r.sleep(r.config.FlushGrace)
	}

	samples := r.buffer.Drain()
	if len(samples) == 0 {
		if stopErr != nil {
			return nil, fmt.Errorf("%w (%v)", ErrEmptyRecording, stopErr)
		}
		return nil, ErrEmptyRecording
	}
	return Resample(samples, r.rate), nil
}

func fromMalgoFormat(f malgo.FormatType) SampleFormat {
	switch f {
	case malgo.FormatF32:
		return FormatF32
	case malgo.FormatS16:
		return FormatS16
	default:
		// miniaudio has no unsigned 16-bit format; U8/S24/S32 are not decoded
		return FormatUnknown
	}
}

func freeContext(ctx *malgo.AllocatedContext) {
	if ctx == nil {
		return
	}
	_ = ctx.Uninit()
	ctx.Free()
}
