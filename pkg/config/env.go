package config

// EnvPrefix is handed to envconfig; every field tag already carries the full variable name.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "STOREFRONT_APP_ENV"
	EnvPort   = "STOREFRONT_APP_PORT"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins = "STOREFRONT_JWT_EXPIRATION_MINUTES"

	EnvFreeShippingThreshold = "STOREFRONT_FREE_SHIPPING_THRESHOLD_CENTS"
	EnvFlatShippingFee       = "STOREFRONT_FLAT_SHIPPING_FEE_CENTS"
	EnvTaxRate               = "STOREFRONT_TAX_RATE"

	EnvGuestCartTTL = "STOREFRONT_GUEST_CART_TTL"

	EnvHTTPWriteTimeout = "STOREFRONT_HTTP_WRITE_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
