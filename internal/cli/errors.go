package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errMovePairs = errors.New("expected pairs of <active-id> <over-id>")

type listNotEmptyError struct {
	count int
}

func (e listNotEmptyError) Error() string {
	return fmt.Sprintf("the list already has %d products; run `handla reset` first or pass --force", e.count)
}

var errImageArgs = errors.New("provide exactly one of --file or --clear")

type unknownConfigKeyError struct {
	key string
}

func (e unknownConfigKeyError) Error() string {
	return fmt.Sprintf("unknown config key: %s (expected engine|dataDir|log.level|log.file)", e.key)
}
