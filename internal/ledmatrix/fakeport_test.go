package ledmatrix

import (
	"bytes"
	"time"
)

// fakePort records written bytes and serves queued replies. An empty
// receive buffer behaves like a serial read timeout.
type fakePort struct {
	tx          bytes.Buffer
	rx          []byte
	chunk       int // max bytes per Read, 0 for unlimited
	readTimeout time.Duration

	// onWrite runs after every write, e.g. to queue a reply.
	onWrite func(pkt []byte)

	writeErr error
	drainErr error
	readErr  error

	writes, drains, resets, reads int
	closed                        bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.rx) == 0 {
		time.Sleep(f.readTimeout)
		return 0, nil
	}
	n := len(p)
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	n = copy(p[:n], f.rx)
	f.rx = f.rx[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes++
	f.tx.Write(p)
	if f.onWrite != nil {
		f.onWrite(append([]byte(nil), p...))
	}
	return len(p), nil
}

func (f *fakePort) Drain() error {
	f.drains++
	return f.drainErr
}

func (f *fakePort) ResetInputBuffer() error {
	f.resets++
	f.rx = nil
	return nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.readTimeout = t
	return nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

// packets splits the recorded stream at each command marker.
func (f *fakePort) packets() [][]byte {
	var out [][]byte
	for _, p := range bytes.Split(f.tx.Bytes(), magic[:]) {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}
