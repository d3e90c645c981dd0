package link

// FrameCapacity is the size of the input line buffer.
const FrameCapacity = 64

// Sentinel terminates a line.
const Sentinel byte = ';'

// InputFrame buffers a line until the sentinel arrives.
// The cursor never goes beyond FrameCapacity-1.
type InputFrame struct {
	buf    [FrameCapacity]byte
	cursor int
}

// Len returns the number of buffered bytes.
func (f *InputFrame) Len() int {
	return f.cursor
}

// Full indicates no more byte can be appended.
func (f *InputFrame) Full() bool {
	return f.cursor >= FrameCapacity-1
}

// Reset discards the buffered bytes.
func (f *InputFrame) Reset() {
	f.cursor = 0
}

// Append appends a byte, restarting the line if the frame is full.
func (f *InputFrame) Append(b byte) {
	if f.Full() {
		f.cursor = 0
	}
	f.buf[f.cursor] = b
	f.cursor++
}

// Terminate returns the buffered line and resets the cursor.
func (f *InputFrame) Terminate() string {
	line := string(f.buf[:f.cursor])
	f.cursor = 0
	return line
}
