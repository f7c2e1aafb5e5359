package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Blob storage. Backend is "s3" or "supabase"; both use the same two
	// logical buckets.
	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"s3"`
	DocumentsBucket string `envconfig:"DOCUMENTS_BUCKET" default:"documents"`
	LogosBucket     string `envconfig:"LOGOS_BUCKET" default:"logos"`

	// Supabase Storage (only read when STORAGE_BACKEND=supabase)
	SupabaseProjectID string `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseAPIKey    string `envconfig:"SUPABASE_API_KEY"`

	// Email notifications (SES). Empty sender disables dispatch.
	EmailSender string `envconfig:"EMAIL_SENDER"`
	AdminEmail  string `envconfig:"ADMIN_EMAIL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
