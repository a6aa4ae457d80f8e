package storage

import "fmt"

// NewStore builds a store for the given kind. The path argument is a
// directory for the file kind and a database file for bolt and sqlite;
// the memory kind ignores it.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path), nil
	case "bolt":
		return NewBoltStore(path), nil
	case "sqlite":
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q (want memory, file, bolt or sqlite)", kind)
	}
}

func DefaultStoreKind() string {
	return "memory"
}

// CloseIfSupported closes stores that hold OS resources. Memory and file
// stores have nothing to release.
func CloseIfSupported(s Store) error {
	if closer, ok := s.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
