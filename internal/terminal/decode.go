package terminal

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// escapeTimeout is how long the decoder waits after ESC for the rest of a
// sequence before reporting a lone Escape.
const escapeTimeout = 50 * time.Millisecond

// byteSource is the input side of the decoder. buffered reports how many
// bytes can be read without blocking. waitInput blocks until a byte can be
// read or the timeout passes; a lone Escape press is one where nothing
// follows within escapeTimeout.
type byteSource interface {
	ReadByte() (byte, error)
	buffered() int
	waitInput(timeout time.Duration) bool
}

// tildeKeys maps the numeric parameter of "ESC [ n ~" sequences.
var tildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// finalKeys maps the final byte of CSI and SS3 sequences without parameters.
var finalKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// decodeKey reads one key event from src.
func decodeKey(src byteSource) (KeyEvent, error) {
	b, err := src.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch {
	case b == 0x03:
		return KeyEvent{}, ErrInterrupted
	case b == '\r' || b == '\n':
		return KeyEvent{Key: KeyEnter, Char: '\r'}, nil
	case b == '\t':
		return KeyEvent{Key: KeyTab, Char: '\t'}, nil
	case b == 0x7f || b == 0x08:
		return KeyEvent{Key: KeyBackspace}, nil
	case b == 0x1b:
		return decodeEscape(src)
	case b < 0x20:
		return KeyEvent{Char: rune(b), Mod: ModCtrl}, nil
	case b < utf8.RuneSelf:
		return KeyEvent{Char: rune(b)}, nil
	}

	return decodeRune(src, b)
}

// decodeRune completes a multi-byte UTF-8 sequence whose lead byte is lead.
func decodeRune(src byteSource, lead byte) (KeyEvent, error) {
	n := 0
	switch {
	case lead&0xe0 == 0xc0:
		n = 2
	case lead&0xf0 == 0xe0:
		n = 3
	case lead&0xf8 == 0xf0:
		n = 4
	default:
		return KeyEvent{Char: utf8.RuneError}, nil
	}

	buf := []byte{lead}
	for len(buf) < n {
		b, err := src.ReadByte()
		if err != nil {
			return KeyEvent{}, err
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return KeyEvent{Char: r}, nil
}

// decodeEscape handles the bytes following ESC. When nothing else arrives
// in time the key is a plain Escape, and the caller treats the next event
// as an alt chord.
func decodeEscape(src byteSource) (KeyEvent, error) {
	if src.buffered() == 0 && !src.waitInput(escapeTimeout) {
		return KeyEvent{Key: KeyEscape}, nil
	}

	b, err := src.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case '[':
		return decodeCSI(src)
	case 'O':
		f, err := src.ReadByte()
		if err != nil {
			return KeyEvent{}, err
		}
		if k, ok := finalKeys[f]; ok {
			return KeyEvent{Key: k}, nil
		}
		return KeyEvent{Key: KeyUnknown}, nil
	}

	// ESC followed by an ordinary byte is how terminals send Meta keys.
	ev, err := decodeAfterEscape(src, b)
	if err != nil {
		return KeyEvent{}, err
	}
	ev.Mod |= ModAlt
	return ev, nil
}

// decodeAfterEscape decodes a key whose first byte has already been read.
func decodeAfterEscape(src byteSource, b byte) (KeyEvent, error) {
	switch {
	case b == '\r' || b == '\n':
		return KeyEvent{Key: KeyEnter, Char: '\r'}, nil
	case b == '\t':
		return KeyEvent{Key: KeyTab, Char: '\t'}, nil
	case b == 0x7f || b == 0x08:
		return KeyEvent{Key: KeyBackspace}, nil
	case b < 0x20:
		return KeyEvent{Char: rune(b), Mod: ModCtrl}, nil
	case b < utf8.RuneSelf:
		return KeyEvent{Char: rune(b)}, nil
	}
	return decodeRune(src, b)
}

// decodeCSI parses "ESC [ params final".
func decodeCSI(src byteSource) (KeyEvent, error) {
	var params strings.Builder
	for {
		b, err := src.ReadByte()
		if err != nil {
			return KeyEvent{}, err
		}
		if b >= 0x30 && b <= 0x3f {
			params.WriteByte(b)
			continue
		}
		if b < 0x40 || b > 0x7e {
			return KeyEvent{Key: KeyUnknown}, nil
		}
		return csiEvent(params.String(), b), nil
	}
}

func csiEvent(params string, final byte) KeyEvent {
	fields := strings.Split(params, ";")
	mod := Modifiers(0)
	if len(fields) > 1 {
		if m, err := strconv.Atoi(fields[1]); err == nil && m > 1 {
			// xterm encodes modifiers as 1 + bitmask(shift=1, alt=2, ctrl=4).
			mod = Modifiers(m - 1)
		}
	}

	if final == '~' {
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return KeyEvent{Key: KeyUnknown}
		}
		if k, ok := tildeKeys[n]; ok {
			return KeyEvent{Key: k, Mod: mod}
		}
		return KeyEvent{Key: KeyUnknown}
	}

	if k, ok := finalKeys[final]; ok {
		return KeyEvent{Key: k, Mod: mod}
	}
	return KeyEvent{Key: KeyUnknown}
}
