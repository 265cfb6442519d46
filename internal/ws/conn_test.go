package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingWriter records whether two writes ever ran at the same time.
type countingWriter struct {
	inFlight int32
	overlaps int32
}

func (w *countingWriter) enter() {
	if atomic.AddInt32(&w.inFlight, 1) > 1 {
		atomic.AddInt32(&w.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&w.inFlight, -1)
}

func (w *countingWriter) WriteJSON(v interface{}) error { w.enter(); return nil }

func (w *countingWriter) WriteMessage(messageType int, data []byte) error {
	w.enter()
	return nil
}

func (w *countingWriter) Close() error { return nil }

func TestConnSerializesConcurrentWrites(t *testing.T) {
	w := &countingWriter{}
	c := &Conn{w: w}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = c.WriteJSON(Message{Type: MessageTypeGameState})
			} else {
				_ = c.WriteMessage(1, []byte("x"))
			}
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&w.overlaps); n != 0 {
		t.Errorf("observed %d overlapping writes, want all writes serialized", n)
	}
}
