package link

// Handshake bytes.
const (
	HandshakeFirst  byte = 'A'
	HandshakeSecond byte = 'T'
)

// HandshakeAck is replied to the central once the handshake is detected.
const HandshakeAck = "#;"

// HandshakeDetector recognizes "AT" split over successive bytes.
type HandshakeDetector struct {
	last byte
}

// Detect consumes one byte and reports whether it completes "AT".
func (d *HandshakeDetector) Detect(b byte) bool {
	hit := d.last == HandshakeFirst && b == HandshakeSecond
	d.last = b
	return hit
}
