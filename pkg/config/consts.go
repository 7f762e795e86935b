package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PARFUMELLE_DB_DSN"
	EnvDBHost = "PARFUMELLE_DB_HOST"
	EnvDBUser = "PARFUMELLE_DB_USER"
	EnvDBName = "PARFUMELLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
