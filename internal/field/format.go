package field

// Format is the field-width convention of a record.
type Format uint8

const (
	// FormatSmall is the fixed 8-character convention.
	FormatSmall Format = iota
	// FormatLarge is the fixed 16-character convention, selected by an
	// asterisk in the keyword slot.
	FormatLarge
	// FormatFree is the comma-separated convention; fields have no
	// fixed columns.
	FormatFree
)

// Width returns the column width of one data field, or 0 for free format.
func (f Format) Width() int {
	switch f {
	case FormatSmall:
		return 8
	case FormatLarge:
		return 16
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case FormatSmall:
		return "small"
	case FormatLarge:
		return "large"
	case FormatFree:
		return "free"
	}
	return "unknown"
}
