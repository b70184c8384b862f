package mutate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Storage failures are reported with one generic error per operation kind.
// The engine error is logged, not returned.
var (
	ErrUpdateAmount  = errors.New("failed to update amount")
	ErrToggle        = errors.New("failed to toggle")
	ErrDelete        = errors.New("failed to delete")
	ErrUpdateImage   = errors.New("failed to update image")
	ErrUpdateDetails = errors.New("failed to update details")
	ErrRename        = errors.New("failed to rename")
	ErrAddProduct    = errors.New("failed to add product")
)

type ExistsError struct {
	Kind string
	Key  string
}

func (e ExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Key)
}

func storageFailure(op error, key string, cause error) error {
	zap.L().Debug("storage operation failed",
		zap.String("op", op.Error()),
		zap.String("key", key),
		zap.Error(cause))
	return op
}
