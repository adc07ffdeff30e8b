package config

const EnvPrefix = "SHOPCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SHOPCART_APP_ENV"
	EnvPort     = "SHOPCART_APP_PORT"
	EnvDBDSN    = "SHOPCART_DB_DSN"
	EnvDBHost   = "SHOPCART_DB_HOST"
	EnvDBUser   = "SHOPCART_DB_USER"
	EnvDBName   = "SHOPCART_DB_NAME"
	EnvDBPort   = "SHOPCART_DB_PORT"
	EnvDBPass   = "SHOPCART_DB_PASSWORD"
	EnvDBSSL    = "SHOPCART_DB_SSLMODE"
	EnvRedisURL = "SHOPCART_REDIS_URL"

	EnvJWTSecret              = "SHOPCART_JWT_SECRET"
	EnvJWTIssuer              = "SHOPCART_JWT_ISSUER"
	EnvJWTExpMins             = "SHOPCART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SHOPCART_REFRESH_TOKEN_TTL_MINUTES"

	EnvCartConflictRetries = "SHOPCART_CART_CONFLICT_RETRIES"
	EnvCORSAllowedOrigins  = "SHOPCART_CORS_ALLOWED_ORIGINS"

	EnvUseSQLite = "SHOPCART_USE_SQLITE"
	EnvDBDriver  = "SHOPCART_DB_DRIVER"
	EnvLogFormat = "SHOPCART_LOG_FORMAT"
)
