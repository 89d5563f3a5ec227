package store

import (
	"fmt"
	"strings"
)

// CreateStore picks a backend from the connection string. An empty string
// selects the in-process store.
func CreateStore(connString string) (Store, error) {
	switch {
	case connString == "", strings.HasPrefix(connString, "memory://"):
		return NewMemoryStore(), nil
	case strings.HasPrefix(connString, "redis://"), strings.HasPrefix(connString, "rediss://"):
		return NewRedisStore(connString)
	case strings.HasPrefix(connString, "postgres://"), strings.HasPrefix(connString, "postgresql://"):
		return NewPostgresStore(connString)
	case strings.HasPrefix(connString, "mongodb://"), strings.HasPrefix(connString, "mongodb+srv://"):
		return NewMongoStore(connString)
	case strings.HasPrefix(connString, "sqlite://"):
		return NewSQLiteStore(strings.TrimPrefix(connString, "sqlite://"))
	case strings.HasPrefix(connString, "file:"), strings.HasSuffix(connString, ".db"), !strings.Contains(connString, "://"):
		return NewSQLiteStore(connString)
	default:
		return nil, fmt.Errorf("unsupported store URL: %s", connString)
	}
}
