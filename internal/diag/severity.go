package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for conditions that degrade a record or field but
	// never block the comparison.
	SevWarning
	// SevError is for conditions that abandon a branch of deck
	// assembly (missing or circular includes). The comparison still
	// completes over whatever was resolvable.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
