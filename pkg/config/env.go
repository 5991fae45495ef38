package config

// EnvPrefix scopes every environment variable the storefront reads.
const EnvPrefix = "SHOPHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOPHUB_DB_DSN"
	EnvDBHost = "SHOPHUB_DB_HOST"
	EnvDBUser = "SHOPHUB_DB_USER"
	EnvDBName = "SHOPHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
