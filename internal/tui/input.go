package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in a form field.
const maxInputLen = 512

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and printable text, including pastes.
// Returns the text unchanged for named keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	if key == "backspace" {
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if !isPrintableKey(key) {
		return text
	}
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	runes := []rune(key)
	if len(runes) > room {
		runes = runes[:room]
	}
	return text + string(runes)
}

// isPrintableKey reports whether key is literal text rather than a key name
// such as "enter" or "ctrl+c". Single runes are always text; longer strings
// are pastes, which bubbletea delivers with their own content.
func isPrintableKey(key string) bool {
	if utf8.RuneCountInString(key) == 1 {
		return true
	}
	if namedKeys[key] || strings.HasPrefix(key, "ctrl+") || strings.HasPrefix(key, "alt+") || strings.HasPrefix(key, "shift+") {
		return false
	}
	// Function keys: f1..f20
	if len(key) <= 3 && strings.HasPrefix(key, "f") && strings.Trim(key[1:], "0123456789") == "" {
		return false
	}
	return true
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "backspace": true, "delete": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true, "insert": true,
}

// maskSecret renders a password field as bullets, one per rune.
func maskSecret(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
