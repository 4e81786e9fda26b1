// Package vdomtest provides an in-memory display transport for tests: it
// records every message a session sends and can be made to fail, so the
// render/patch/detach paths are exercised without a frontend.
package vdomtest

import (
	"fmt"
	"sync"

	"github.com/gnestor/vdom/display"
)

// Compile-time assertion that the recorder satisfies the transport capability.
var _ display.Transport = (*RecorderTransport)(nil)

// RecorderTransport captures outbound display messages in order.
type RecorderTransport struct {
	mu        sync.Mutex
	handleSeq int
	messages  []display.Message

	// SendErr, when non-nil, makes every Send fail with it. Tests use this
	// to simulate a detached frontend.
	SendErr error
}

// NewRecorder creates an empty recording transport.
func NewRecorder() *RecorderTransport {
	return &RecorderTransport{}
}

// AllocateHandle hands out sequential handles, fresh per recorder.
func (r *RecorderTransport) AllocateHandle() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handleSeq++
	return fmt.Sprintf("handle-%d", r.handleSeq), nil
}

// Send records msg, or fails if SendErr is set.
func (r *RecorderTransport) Send(msg display.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendErr != nil {
		return r.SendErr
	}
	r.messages = append(r.messages, msg)
	return nil
}

// Fail makes subsequent Sends return err; Fail(nil) heals the transport.
func (r *RecorderTransport) Fail(err error) {
	r.mu.Lock()
	r.SendErr = err
	r.mu.Unlock()
}

// Messages returns a copy of everything sent so far.
func (r *RecorderTransport) Messages() []display.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]display.Message(nil), r.messages...)
}

// Last returns the most recent message, or false if nothing was sent.
func (r *RecorderTransport) Last() (display.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return display.Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
