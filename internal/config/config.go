package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DefaultUploadMaxBytes       = 5 * 1024 * 1024
	DefaultProductImageMaxWidth = 1200
	DefaultLogoMaxWidth         = 800
	DefaultUploadRateMax        = 6
	DefaultUploadRateWindow     = 60 * time.Second
)

type Config struct {
	Host string
	Port string

	DataDir      string
	ImagesDir    string
	StoreBackend string // file | redis

	SessionSecret string
	CookieSecure  bool
	AdminUser     string
	AdminPass     string

	RateLimitBackend string // memory | redis
	UploadRateMax    int
	UploadRateWindow time.Duration

	UploadMaxBytes       int64
	LogoMaxBytes         int64
	ProductImageMaxWidth int
	LogoMaxWidth         int

	ImageBackend   string // local | minio
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string
	MinioRegion    string

	RedisHost     string
	RedisPassword string
	RedisDB       int

	LogMode string
	LogFile string

	OrphanSweepSchedule string
	CORSOrigins         []string
	// TrustedProxies liste les proxys dont on croit X-Forwarded-For ; vide = aucun
	TrustedProxies []string
}

// Load charge le fichier .env s'il existe
func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// FromEnv construit la configuration à partir des variables d'environnement.
// Une valeur illisible retombe sur la valeur par défaut.
func FromEnv() Config {
	return Config{
		Host:         getString("HOST", "0.0.0.0"),
		Port:         getString("PORT", "5000"),
		DataDir:      getString("DATA_DIR", "./data_store"),
		ImagesDir:    getString("IMAGES_DIR", "./public/images"),
		StoreBackend: strings.ToLower(getString("STORE_BACKEND", "file")),

		SessionSecret: getString("SESSION_SECRET", "dev-secret-change-me"),
		CookieSecure:  getBool("COOKIE_SECURE", false),
		AdminUser:     getString("ADMIN_USER", "admin"),
		AdminPass:     getString("ADMIN_PASS", "admin"),

		RateLimitBackend: strings.ToLower(getString("RATE_LIMIT_BACKEND", "memory")),
		UploadRateMax:    getInt("UPLOAD_RATE_MAX", DefaultUploadRateMax),
		UploadRateWindow: getDuration("UPLOAD_RATE_WINDOW", DefaultUploadRateWindow),

		UploadMaxBytes:       getInt64("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes),
		LogoMaxBytes:         getInt64("LOGO_MAX_BYTES", DefaultUploadMaxBytes),
		ProductImageMaxWidth: getInt("PRODUCT_IMAGE_MAX_WIDTH", DefaultProductImageMaxWidth),
		LogoMaxWidth:         getInt("LOGO_MAX_WIDTH", DefaultLogoMaxWidth),

		ImageBackend:   strings.ToLower(getString("IMAGE_BACKEND", "local")),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getString("MINIO_BUCKET", "mystore"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		MinioRegion:    getString("MINIO_REGION", "us-east-1"),

		RedisHost:     getString("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		LogMode: getString("LOG_MODE", "development"),
		LogFile: os.Getenv("LOG_FILE"),

		OrphanSweepSchedule: os.Getenv("ORPHAN_SWEEP_SCHEDULE"),
		CORSOrigins:         splitList(os.Getenv("CORS_ORIGINS")),
		TrustedProxies:      splitList(os.Getenv("TRUSTED_PROXIES")),
	}
}

// Addr renvoie l'adresse d'écoute host:port
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := cast.ToIntE(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getInt64(key string, def int64) int64 {
	v, err := cast.ToInt64E(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return def
	}
	return v
}

// getDuration accepte "90s", "2m" ou un nombre de secondes
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := cast.ToIntE(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if d, err := cast.ToDurationE(raw); err == nil && d > 0 {
		return d
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
