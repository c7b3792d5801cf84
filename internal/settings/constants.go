package settings

// Setting keys tunable at runtime through the settings table.
const (
	// FreeTierCreditsKey caps generations per cycle for free accounts.
	FreeTierCreditsKey = "FREE_TIER_CREDITS"
	// CreditsResetIntervalDaysKey is the credit cycle length in days.
	CreditsResetIntervalDaysKey = "CREDITS_RESET_INTERVAL_DAYS"
	// JobMaxConcurrencyKey caps concurrently running background jobs.
	JobMaxConcurrencyKey = "JOB_MAX_CONCURRENCY"
	// JobPollIntervalSecondsKey is the dispatcher queue poll interval.
	JobPollIntervalSecondsKey = "JOB_POLL_INTERVAL_SECONDS"
	// RateLimitKey is the per-user requests-per-second ceiling (0 disables).
	RateLimitKey = "RATE_LIMIT"
	// RateLimitRedisEnabledKey switches the limiter to the Redis backend.
	RateLimitRedisEnabledKey = "RATE_LIMIT_REDIS_ENABLED"
	// RateLimitRedisAddrKey is the Redis address for the limiter backend.
	RateLimitRedisAddrKey = "RATE_LIMIT_REDIS_ADDR"
	// RateLimitRedisPasswordKey is the Redis password for the limiter backend.
	RateLimitRedisPasswordKey = "RATE_LIMIT_REDIS_PASSWORD"
	// RateLimitRedisDBKey is the Redis database index for the limiter backend.
	RateLimitRedisDBKey = "RATE_LIMIT_REDIS_DB"
	// RateLimitRedisPrefixKey namespaces limiter keys in Redis.
	RateLimitRedisPrefixKey = "RATE_LIMIT_REDIS_PREFIX"
)

// Defaults applied when a setting is absent or empty.
const (
	// DefaultFreeTierCredits is the free-tier generation cap per cycle.
	DefaultFreeTierCredits = 5
	// DefaultCreditsResetIntervalDays is the credit cycle length.
	DefaultCreditsResetIntervalDays = 30
	// DefaultJobMaxConcurrency bounds concurrent background jobs system-wide.
	DefaultJobMaxConcurrency = 5
	// DefaultJobPollIntervalSeconds is the dispatcher poll cadence.
	DefaultJobPollIntervalSeconds = 1
	// DefaultRateLimit disables request throttling unless configured.
	DefaultRateLimit = 0
	// DefaultRateLimitRedisPrefix namespaces limiter keys in Redis.
	DefaultRateLimitRedisPrefix = "uisketch:ratelimit"
)
