package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Field decoding
	FieldInfo       Code = 1000
	FieldMalformed  Code = 1001
	FieldMixedWidth Code = 1002

	// Record merging
	RecordInfo                 Code = 2000
	RecordDanglingContinuation Code = 2001

	// Include resolution
	IncludeInfo     Code = 3000
	IncludeNotFound Code = 3001
	IncludeCircular Code = 3002
	IncludeBadPath  Code = 3003

	// Card parsing
	CardInfo         Code = 4000
	CardUnknownType  Code = 4001
	CardDuplicateKey Code = 4002
	CardArity        Code = 4003

	// Canonicalization
	CanonInfo      Code = 5000
	CanonAmbiguous Code = 5001
)

// ID returns the stable user-facing identifier, e.g. "ND1001".
func (c Code) ID() string {
	return fmt.Sprintf("ND%04d", uint16(c))
}

func (c Code) String() string {
	switch c {
	case FieldMalformed:
		return "malformed-field"
	case FieldMixedWidth:
		return "mixed-field-width"
	case RecordDanglingContinuation:
		return "dangling-continuation"
	case IncludeNotFound:
		return "include-not-found"
	case IncludeCircular:
		return "circular-include"
	case IncludeBadPath:
		return "include-bad-path"
	case CardUnknownType:
		return "unknown-entry-type"
	case CardDuplicateKey:
		return "duplicate-key"
	case CardArity:
		return "unexpected-field-count"
	case CanonAmbiguous:
		return "ambiguous-canonicalization"
	case FieldInfo, RecordInfo, IncludeInfo, CardInfo, CanonInfo:
		return "info"
	}
	return c.ID()
}
