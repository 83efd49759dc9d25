package config

const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./library.db"

	// DefaultLocationCount is how many "Compartment N" rows are seeded
	DefaultLocationCount = 45
)
