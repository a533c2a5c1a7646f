package session

import (
	"fmt"

	"github.com/gestione-dev/gestione/internal/config"
)

// Open returns the store selected by kind and a function releasing it
func Open(kind, path string) (Store, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case config.StoreKeyring, "":
		return NewKeyringStore(), noop, nil
	case config.StoreMemory:
		return NewMemoryStore(), noop, nil
	case config.StoreFile:
		if path == "" {
			var err error
			path, err = DefaultStorePath()
			if err != nil {
				return nil, nil, err
			}
		}
		fs, err := OpenFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", kind)
	}
}
