package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "spectra"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv             = "SPECTRA_APP_ENV"
	EnvPort               = "SPECTRA_APP_PORT"
	EnvRedisURL           = "SPECTRA_REDIS_URL"
	EnvStripeAPIKey       = "SPECTRA_STRIPE_API_KEY"
	EnvCheckoutSuccessURL = "SPECTRA_CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL  = "SPECTRA_CHECKOUT_CANCEL_URL"
)
