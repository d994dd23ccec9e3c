package app

import (
	tea "charm.land/bubbletea/v2"
)

// rawKeyBytes converts a Bubble Tea key press to the raw bytes a PTY
// expects. Unhandled chords return nil and are dropped.
func rawKeyBytes(msg tea.KeyPressMsg) []byte {
	key := msg.Key()

	if key.Mod&tea.ModCtrl != 0 {
		switch key.Code {
		case tea.KeySpace:
			return []byte{0x00}
		case tea.KeyBackspace:
			return []byte{0x08}
		case tea.KeyTab:
			return []byte{0x09}
		case tea.KeyEnter:
			return []byte{0x0a}
		case tea.KeyEscape:
			return []byte{0x1b}
		}
		if key.Code >= 'a' && key.Code <= 'z' {
			return []byte{byte(key.Code - 'a' + 1)}
		}
		if key.Code >= 'A' && key.Code <= 'Z' {
			return []byte{byte(key.Code - 'A' + 1)}
		}
		switch key.Code {
		case '@':
			return []byte{0x00}
		case '[':
			return []byte{0x1b}
		case '\\':
			return []byte{0x1c}
		case ']':
			return []byte{0x1d}
		case '^':
			return []byte{0x1e}
		case '_':
			return []byte{0x1f}
		case '?':
			return []byte{0x7f}
		}
		return nil
	}

	if key.Mod&tea.ModAlt != 0 {
		if key.Code == tea.KeyBackspace {
			return []byte{0x1b, 0x7f}
		}
		if key.Text != "" && len(key.Text) == 1 {
			return []byte{0x1b, key.Text[0]}
		}
		if key.Code >= 32 && key.Code <= 126 {
			return []byte{0x1b, byte(key.Code)}
		}
		return nil
	}

	switch key.Code {
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyEscape:
		return []byte{0x1b}
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyDelete:
		return []byte{0x1b, '[', '3', '~'}
	case tea.KeyPgUp:
		return []byte{0x1b, '[', '5', '~'}
	case tea.KeyPgDown:
		return []byte{0x1b, '[', '6', '~'}
	case tea.KeyUp:
		return []byte{0x1b, '[', 'A'}
	case tea.KeyDown:
		return []byte{0x1b, '[', 'B'}
	case tea.KeyRight:
		return []byte{0x1b, '[', 'C'}
	case tea.KeyLeft:
		return []byte{0x1b, '[', 'D'}
	case tea.KeyHome:
		return []byte{0x1b, '[', 'H'}
	case tea.KeyEnd:
		return []byte{0x1b, '[', 'F'}
	}

	if key.Text != "" {
		return []byte(key.Text)
	}
	if key.Code >= 32 && key.Code <= 126 {
		return []byte{byte(key.Code)}
	}
	return nil
}
