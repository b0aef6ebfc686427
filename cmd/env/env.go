package env

const (
	// Prefix is the env variable prefix for the service
	Prefix = "COUNTRYFACTS"

	// DBURLSuffix is the env variable suffix for the DB connection string
	DBURLSuffix = "_DB_URL"
)
