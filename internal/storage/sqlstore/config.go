package sqlstore

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds SQL connection settings
type Config struct {
	// Driver is DriverSQLite or DriverPostgres
	Driver string
	// DSN is passed to the driver as is, e.g. "notes.db" or "host=localhost user=pnotes dbname=pnotes"
	DSN string
	// AutoMigrate creates or updates the tables on open
	AutoMigrate bool
}

// DefaultConfig returns a local SQLite file with migrations enabled
func DefaultConfig() Config {
	return Config{
		Driver:      DriverSQLite,
		DSN:         "pokernotes.db",
		AutoMigrate: true,
	}
}
