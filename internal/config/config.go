package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and upload ceilings.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	MinioEndpoint  string // MinIO server host:port
	MinioAccessKey string // MinIO access key
	MinioSecretKey string // MinIO secret key
	MinioBucket    string // bucket holding audio previews and cover art
	MinioUseSSL    bool   // connect to MinIO over TLS when true

	MaxAudioBytes int64 // upload ceiling for beat audio files
	MaxCoverBytes int64 // upload ceiling for cover images
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Upload ceilings and
// the MinIO TLS flag have sensible defaults and may be omitted.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),  // environment (dev/test/prod)
		Port:           must("APP_PORT"), // port to bind the HTTP server
		DBUser:         must("DB_USER"),  // database user
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		MinioEndpoint:  must("MINIO_ENDPOINT"),
		MinioAccessKey: must("MINIO_ACCESS_KEY"),
		MinioSecretKey: must("MINIO_SECRET_KEY"),
		MinioBucket:    optional("MINIO_BUCKET", "beats"),
		MinioUseSSL:    optional("MINIO_USE_SSL", "false") == "true",

		// 50MB for audio previews, 5MB for cover images.
		MaxAudioBytes: optionalInt64("MAX_AUDIO_UPLOAD_BYTES", 50*1024*1024),
		MaxCoverBytes: optionalInt64("MAX_COVER_UPLOAD_BYTES", 5*1024*1024),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// optional returns the value of an environment variable or the provided
// default when the variable is unset or empty.
func optional(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optionalInt64 is like optional() but parses the value as an int64.  An
// unparsable value falls back to the default rather than aborting startup.
func optionalInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
