package schedule

import (
	"fmt"
	"time"
)

// Op is the kind of action an Instruction asks a sink to perform.
type Op int

const (
	OpChar Op = iota
	OpBackspace
	OpWait
)

func (o Op) String() string {
	switch o {
	case OpChar:
		return "char"
	case OpBackspace:
		return "backspace"
	case OpWait:
		return "wait"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Instruction is one step of a typing session: type a character, press
// backspace, or pause.
type Instruction struct {
	Op       Op
	Char     rune
	Duration time.Duration
}

// Char types r.
func Char(r rune) Instruction { return Instruction{Op: OpChar, Char: r} }

// Backspace deletes the previous character.
func Backspace() Instruction { return Instruction{Op: OpBackspace} }

// Wait pauses for d.
func Wait(d time.Duration) Instruction { return Instruction{Op: OpWait, Duration: d} }

func (i Instruction) String() string {
	switch i.Op {
	case OpChar:
		return fmt.Sprintf("char(%q)", i.Char)
	case OpWait:
		return fmt.Sprintf("wait(%s)", i.Duration)
	default:
		return i.Op.String()
	}
}

// Buffer simulates a text field: characters are appended and backspace
// removes the last one.
type Buffer struct {
	runes []rune
}

// Apply performs ins on the buffer. Waits are ignored.
func (b *Buffer) Apply(ins Instruction) {
	switch ins.Op {
	case OpChar:
		b.runes = append(b.runes, ins.Char)
	case OpBackspace:
		if len(b.runes) > 0 {
			b.runes = b.runes[:len(b.runes)-1]
		}
	}
}

func (b *Buffer) String() string { return string(b.runes) }
