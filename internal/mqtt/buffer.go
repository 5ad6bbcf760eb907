package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO holding messages published while the
// broker is unreachable. When full, the oldest message is dropped.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf      []bufferedMsg
	oldest   int // index of the oldest buffered message
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	if r.count == len(r.buf) {
		if !r.overflow {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", len(r.buf))
			r.overflow = true
		}
		// Overwrite the oldest slot and move the oldest marker past it.
		r.buf[r.oldest] = msg
		r.oldest = (r.oldest + 1) % len(r.buf)
		return
	}
	r.buf[(r.oldest+r.count)%len(r.buf)] = msg
	r.count++
}

// drainAll returns the buffered messages oldest-first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	result := make([]bufferedMsg, r.count)
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(r.oldest+i)%len(r.buf)]
	}

	r.oldest = 0
	r.count = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
