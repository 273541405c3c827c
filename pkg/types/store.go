package types

import "errors"

// Store is the key-value persistence port offered to hosts: get, set and
// remove string values by key. View state never goes through it.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Set creates or replaces the value stored under key.
	Set(key, value string) error

	// Delete removes key. Returns ErrNotFound if it does not exist.
	Delete(key string) error

	// Keys lists stored keys in ascending order.
	Keys() ([]string, error)
}

// DatasetStore is a Store that also keeps named datasets. Attach opens it
// over a data directory; every other method returns ErrStoreDetached until
// then and after Detach.
type DatasetStore interface {
	Store

	Attach(config Config) error
	Detach() error

	// SaveDataset creates or replaces a dataset and its records.
	SaveDataset(ds *Dataset) error

	// GetDataset loads a dataset with its records, or returns ErrNotFound.
	GetDataset(name string) (*Dataset, error)

	// ListDatasets summarises every dataset, ordered by name.
	ListDatasets() ([]DatasetInfo, error)

	// DeleteDataset removes a dataset, or returns ErrNotFound.
	DeleteDataset(name string) error
}

// Sink receives an exported document. Implementations write a file, stream to
// a terminal, or hand the bytes to a host that offers them for download.
type Sink interface {
	Save(filename, mimeType string, data []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(filename, mimeType string, data []byte) error

// Save calls f.
func (f SinkFunc) Save(filename, mimeType string, data []byte) error {
	return f(filename, mimeType, data)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidKey     = errors.New("invalid key")
	ErrInvalidName    = errors.New("invalid dataset name")
	ErrInvalidDataset = errors.New("invalid dataset")
)
