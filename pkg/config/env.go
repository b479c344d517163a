package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvPort            = "STOREFRONT_APP_PORT"
	EnvLogLevel        = "STOREFRONT_LOG_LEVEL"
	EnvCatalogBaseURL  = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogTimeout  = "STOREFRONT_CATALOG_TIMEOUT"
	EnvStorageDriver   = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageKey      = "STOREFRONT_STORAGE_KEY"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvRedisAddr       = "STOREFRONT_REDIS_ADDR"
	EnvDBDriver        = "STOREFRONT_DB_DRIVER"
	EnvDBDSN           = "STOREFRONT_DB_DSN"
	EnvDBAutoMigrate   = "STOREFRONT_DB_AUTO_MIGRATE"
	EnvBreakerFailures = "STOREFRONT_CATALOG_BREAKER_MAX_FAILURES"
	EnvSessionMax      = "STOREFRONT_SESSION_MAX"
	EnvSessionIdleTTL  = "STOREFRONT_SESSION_IDLE_TTL"
)
