package config

// Default paths for local data
const (
	// DefaultDatabasePath is the default path for the persona registry database
	DefaultDatabasePath = "./personachat.db"

	// DefaultStoreDir is the default root directory for per-persona content stores
	DefaultStoreDir = "./stores"
)
