package printer

import "bytes"

// ESC/POS control bytes.
const (
	escInit      = "\x1b@"
	escAlign     = "\x1ba"
	escBold      = "\x1bE"
	escFeedLines = "\x1bd"
	gsCharSize   = "\x1d!"
	gsPartialCut = "\x1dV\x01"
)

type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// CommandSet composes one receipt transaction. Nothing touches the device
// until the full byte stream is flushed as a unit.
type CommandSet struct {
	buf bytes.Buffer
}

func NewCommandSet() *CommandSet {
	cs := &CommandSet{}
	cs.buf.WriteString(escInit)
	return cs
}

func (cs *CommandSet) Align(a Align) *CommandSet {
	cs.buf.WriteString(escAlign)
	cs.buf.WriteByte(byte(a))
	return cs
}

func (cs *CommandSet) Bold(on bool) *CommandSet {
	cs.buf.WriteString(escBold)
	if on {
		cs.buf.WriteByte(1)
	} else {
		cs.buf.WriteByte(0)
	}
	return cs
}

// DoubleSize doubles width and height for the token number block.
func (cs *CommandSet) DoubleSize(on bool) *CommandSet {
	cs.buf.WriteString(gsCharSize)
	if on {
		cs.buf.WriteByte(0x11)
	} else {
		cs.buf.WriteByte(0)
	}
	return cs
}

func (cs *CommandSet) Text(s string) *CommandSet {
	cs.buf.WriteString(s)
	return cs
}

func (cs *CommandSet) Line(s string) *CommandSet {
	cs.buf.WriteString(s)
	cs.buf.WriteByte('\n')
	return cs
}

func (cs *CommandSet) Feed(lines int) *CommandSet {
	if lines < 0 {
		lines = 0
	}
	cs.buf.WriteString(escFeedLines)
	cs.buf.WriteByte(byte(lines))
	return cs
}

func (cs *CommandSet) Cut() *CommandSet {
	cs.buf.WriteString(gsPartialCut)
	return cs
}

func (cs *CommandSet) Bytes() []byte { return cs.buf.Bytes() }
