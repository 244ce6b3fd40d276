package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned when a definition names a field type that
	// neither the canonical names nor the aliases recognise.
	ErrUnknownType = errors.New("schema: unknown field type")
	// ErrFormNotFound is returned when a requested form or operation is absent.
	ErrFormNotFound = errors.New("schema: form not found")
)

func unknownType(name, raw string) error {
	return fmt.Errorf("%w %q for %q", ErrUnknownType, raw, name)
}
