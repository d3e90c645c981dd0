package link

// Event is what a parsed byte turned into.
type Event int

const (
	// EventNone means the byte was buffered or dropped.
	EventNone Event = iota
	// EventHandshake means the byte completed the "AT" handshake.
	EventHandshake
	// EventCommand means the byte was a period command. The byte is
	// still part of the current line.
	EventCommand
	// EventLine means the byte was the sentinel and a line is complete.
	EventLine
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case EventHandshake:
		return "handshake"
	case EventCommand:
		return "command"
	case EventLine:
		return "line"
	default:
		return "none"
	}
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	Event Event
	// Period is the selected period (µs) on EventCommand.
	Period uint32
	// Line is the completed line on EventLine.
	Line string
}

// Parser shares one byte stream between handshake detection, line
// framing and inline period commands.
type Parser struct {
	Periods *PeriodTable

	handshake HandshakeDetector
	frame     InputFrame
}

// NewParser creates a Parser with the default period table.
func NewParser() *Parser {
	return &Parser{Periods: &DefaultPeriods}
}

// Buffered returns the number of bytes of the incomplete line.
func (p *Parser) Buffered() int {
	return p.frame.Len()
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	if p.handshake.Detect(b) {
		p.frame.Reset()
		pr.Event = EventHandshake
		return
	}
	if p.frame.Full() {
		p.frame.Reset()
	}
	if b == Sentinel {
		pr.Event, pr.Line = EventLine, p.frame.Terminate()
		return
	}
	p.frame.Append(b)
	periods := p.Periods
	if periods == nil {
		periods = &DefaultPeriods
	}
	if period, ok := periods.Lookup(b); ok {
		pr.Event, pr.Period = EventCommand, period
	}
	return
}
