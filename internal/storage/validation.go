package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/penance-hunter/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot checks a snapshot before it is archived.
func validateSnapshot(snap *model.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if snap.Export == nil {
		return fmt.Errorf("%w: missing export", ErrInvalidSnapshot)
	}
	if strings.TrimSpace(snap.FileName) == "" {
		return fmt.Errorf("%w: missing file name", ErrInvalidSnapshot)
	}
	if snap.Total < 0 || snap.Completed < 0 || snap.Completed > snap.Total {
		return fmt.Errorf("%w: completed %d of %d", ErrInvalidSnapshot, snap.Completed, snap.Total)
	}
	if snap.Total != len(snap.Export.Records) {
		return fmt.Errorf("%w: total %d does not match %d records", ErrInvalidSnapshot, snap.Total, len(snap.Export.Records))
	}
	return nil
}
