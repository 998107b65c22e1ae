package config

// EnvPrefix scopes envconfig processing; every variable already carries the
// SOFTSELL_ prefix in its tag, so the processor prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SOFTSELL_DB_DSN"
	EnvDBHost = "SOFTSELL_DB_HOST"
	EnvDBUser = "SOFTSELL_DB_USER"
	EnvDBName = "SOFTSELL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
