package config

const (
	EnvPrefix = "FEIRA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "FEIRA_APP_ENV"
	EnvPort      = "FEIRA_APP_PORT"
	EnvRedisURL  = "FEIRA_REDIS_URL"
	EnvJWTSecret = "FEIRA_JWT_SECRET"
	EnvJWTIssuer = "FEIRA_JWT_ISSUER"

	EnvDBDSN  = "FEIRA_DB_DSN"
	EnvDBHost = "FEIRA_DB_HOST"
	EnvDBUser = "FEIRA_DB_USER"
	EnvDBName = "FEIRA_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
