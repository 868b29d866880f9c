// Package gpsport adapts go.bug.st/serial - the same serial library the
// pack's serial_usb_grabber app uses - to the buffer.ByteSource and
// buffer.ByteSink contracts the decoders are built against, so a real GPS
// receiver on a USB-serial line can drive the parser without the decoder
// core ever importing a serial library.
//
// Grounded on apps/serial_usb_grabber/main.go: the same candidate-filename
// trial loop, the same SetReadTimeout approach to a non-blocking read.
package gpsport

import (
	"errors"
	"time"

	"go.bug.st/serial"
)

// Settings mirrors serial_usb_grabber's Config field set that feeds
// serial.Mode, minus the JSON tags - those live on config.SerialSettings,
// whose GPSPortSettings method converts it into this type.
type Settings struct {
	BaudRate int
	Parity   serial.Parity
	DataBits int
	StopBits serial.StopBits

	// ReadTimeout bounds how long a single Read blocks. Available() relies
	// on this being short, not zero: go.bug.st/serial treats a zero
	// timeout as "block forever", which would violate the parser's "never
	// blocks the caller" contract.
	ReadTimeout time.Duration
}

func (s Settings) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: s.BaudRate,
		Parity:   s.Parity,
		DataBits: s.DataBits,
		StopBits: s.StopBits,
	}
}

// Port wraps an open serial.Port as both a buffer.ByteSource and a
// buffer.ByteSink. The zero value is not usable; use Open.
type Port struct {
	port serial.Port

	// pending holds a byte read ahead by Available's probe read, to be
	// handed back by the next Read call instead of re-reading the port.
	pending    byte
	hasPending bool
}

// Open tries each path in candidates in turn, opening the first one that
// succeeds with the given settings, exactly as GetConnection in
// serial_usb_grabber tries its Filenames list.
func Open(candidates []string, settings Settings) (*Port, error) {
	if len(candidates) == 0 {
		return nil, errors.New("gpsport: no candidate device paths configured")
	}

	var lastErr error
	for _, name := range candidates {
		sp, err := serial.Open(name, settings.mode())
		if err != nil {
			lastErr = err
			continue
		}
		if err := sp.SetReadTimeout(settings.ReadTimeout); err != nil {
			sp.Close()
			lastErr = err
			continue
		}
		return &Port{port: sp}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("gpsport: no configured device path could be opened")
	}
	return nil, lastErr
}

// Available reports whether a byte can be read without blocking for longer
// than the configured ReadTimeout. It reads one byte ahead and stashes it
// for the next Read call, since go.bug.st/serial has no poll-without-read
// primitive.
func (p *Port) Available() bool {
	if p.hasPending {
		return true
	}

	buf := make([]byte, 1)
	n, err := p.port.Read(buf)
	if err != nil || n == 0 {
		return false
	}
	p.pending = buf[0]
	p.hasPending = true
	return true
}

// Read returns the byte stashed by the most recent Available call. Only
// ever called immediately after Available returned true.
func (p *Port) Read() byte {
	p.hasPending = false
	return p.pending
}

// Write writes a single byte to the port.
func (p *Port) Write(b byte) {
	p.port.Write([]byte{b})
}

// WriteBuffer writes buf to the port in one call.
func (p *Port) WriteBuffer(buf []byte) {
	p.port.Write(buf)
}

// Close closes the underlying serial port.
func (p *Port) Close() error {
	return p.port.Close()
}
