package config

const (
	EnvPrefix = "PLANTNET"

	AppEnvDev        = "dev"
	AppEnvProd       = "prod"
	AppEnvProduction = "production"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv      = "PLANTNET_APP_ENV"
	EnvPort        = "PLANTNET_APP_PORT"
	EnvDBDSN       = "PLANTNET_DB_DSN"
	EnvDBHost      = "PLANTNET_DB_HOST"
	EnvDBUser      = "PLANTNET_DB_USER"
	EnvDBName      = "PLANTNET_DB_NAME"
	EnvDBDriver    = "PLANTNET_DB_DRIVER"
	EnvRedisURL    = "PLANTNET_REDIS_URL"
	EnvJWTSecret   = "PLANTNET_ACCESS_TOKEN_SECRET"
	EnvJWTIssuer   = "PLANTNET_JWT_ISSUER"
	EnvJWTExpiry   = "PLANTNET_JWT_EXPIRATION"
	EnvOTPTTL      = "PLANTNET_OTP_TTL"
	EnvOTPStore    = "PLANTNET_OTP_STORE"
	EnvSMTPHost    = "PLANTNET_SMTP_HOST"
	EnvMailFrom    = "PLANTNET_MAIL_FROM"
	EnvCORSOrigins = "PLANTNET_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
