package data

import (
	"errors"
	"sync"
)

// Standard fileobj errors that fetchers, roots and catalogs should use.
var (
	// Address errors
	ErrMalformedAddress  = errors.New("fileobj: malformed resource address")
	ErrSchemeUnsupported = errors.New("fileobj: address scheme unsupported")

	// Resolution errors
	ErrNotFound = errors.New("fileobj: resource not found on search path")

	// Resource errors
	ErrNotExist    = errors.New("fileobj: resource does not exist")
	ErrExist       = errors.New("fileobj: resource already exists")
	ErrIsDirectory = errors.New("fileobj: resource is a directory")
	ErrPermission  = errors.New("fileobj: permission denied")
	ErrReadOnly    = errors.New("fileobj: read-only file object")

	// Lifecycle errors
	ErrBackendFailed = errors.New("fileobj: backend initialization failed")

	// I/O errors
	ErrClosed  = errors.New("fileobj: stream already closed")
	ErrInvalid = errors.New("fileobj: invalid argument")
)

type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Clear() {
	e.errors = make([]error, 0)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
