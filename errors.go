package fieldtopo

import (
	"errors"
	"fmt"
)

var (
	// ErrNilField is returned when an analysis is given no field.
	ErrNilField = errors.New("fieldtopo: nil field")

	// ErrNilSkeleton is returned when a Store is asked to save no skeleton.
	ErrNilSkeleton = errors.New("fieldtopo: nil skeleton")

	// ErrInvalidName is returned for skeleton names a Store cannot address.
	ErrInvalidName = errors.New("fieldtopo: invalid skeleton name")

	// ErrUnknownCodec is returned when a manifest names a codec that is not
	// built in.
	ErrUnknownCodec = errors.New("fieldtopo: unknown codec")
)

// InvalidOptionError reports an option value out of range.
type InvalidOptionError struct {
	Option string
	Value  any
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("fieldtopo: invalid option %s: %v", e.Option, e.Value)
}
