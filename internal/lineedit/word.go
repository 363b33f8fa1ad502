package lineedit

import "unicode"

// noMovement is returned by the word scanners when the scan cannot advance.
const noMovement = -1

// isWordRune reports whether r belongs to a word. Everything else
// (punctuation, symbols, whitespace, controls) separates words.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordForward returns the position just past the end of the word at or
// after p, or noMovement when p is at the end of the text.
func wordForward(text []rune, p int) int {
	if p >= len(text) {
		return noMovement
	}

	i := p
	if !isWordRune(text[i]) {
		for i < len(text) && !isWordRune(text[i]) {
			i++
		}
	}
	for i < len(text) && isWordRune(text[i]) {
		i++
	}

	if i == p {
		return noMovement
	}
	return i
}

// wordBackward returns the start of the word before p, skipping any
// separators directly before p, or noMovement when p is at the start.
func wordBackward(text []rune, p int) int {
	if p <= 0 {
		return noMovement
	}

	i := p - 1
	for i >= 0 && !isWordRune(text[i]) {
		i--
	}
	for i >= 0 && isWordRune(text[i]) {
		i--
	}
	i++

	if i == p {
		return noMovement
	}
	return i
}
