package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Minio    MinioConfig
	Buckets  BucketConfig
	Upload   UploadConfig
	Artifact ArtifactConfig
	Delivery DeliveryConfig
	NATS     NATSConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint    string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	AccessKey   string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey   string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL      bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	CallTimeout time.Duration `envconfig:"STORAGE_CALL_TIMEOUT" default:"5s"`
	MaxTries    uint          `envconfig:"STORAGE_MAX_TRIES" default:"3"`
}

// BucketConfig holds the two buckets the pipeline writes to
type BucketConfig struct {
	Upload string `envconfig:"UPLOAD_BUCKET" required:"true"`
	Output string `envconfig:"OUTPUT_BUCKET" required:"true"`
}

type UploadConfig struct {
	Prefix       string        `envconfig:"UPLOAD_PREFIX" default:"uploads/"`
	MaxSizeBytes int64         `envconfig:"UPLOAD_MAX_SIZE_BYTES" default:"209715200"` // 200MB
	GrantTTL     time.Duration `envconfig:"UPLOAD_GRANT_TTL" default:"15m"`
	SessionTTL   time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	CleanupEvery time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type ArtifactConfig struct {
	JobCallTimeout time.Duration `envconfig:"JOBS_CALL_TIMEOUT" default:"3s"`
	TriggerOnMiss  bool          `envconfig:"ARTIFACT_TRIGGER_ON_MISS" default:"false"`
	GuardTTL       time.Duration `envconfig:"ARTIFACT_DISPATCH_GUARD_TTL" default:"30s"`
}

type DeliveryConfig struct {
	TTL                  time.Duration `envconfig:"DELIVERY_URL_TTL" default:"15m"`
	CloudFrontDomain     string        `envconfig:"CLOUDFRONT_DOMAIN"`
	CloudFrontKeyPairID  string        `envconfig:"CLOUDFRONT_KEY_PAIR_ID"`
	CloudFrontPrivateKey string        `envconfig:"CLOUDFRONT_PRIVATE_KEY_PATH"`
}

type NATSConfig struct {
	URL               string `envconfig:"NATS_URL" required:"true"`
	StreamName        string `envconfig:"NATS_STREAM_NAME" default:"MINIO_EVENTS"`
	ConsumerName      string `envconfig:"NATS_CONSUMER_NAME" default:"upload-events"`
	Subject           string `envconfig:"NATS_SUBJECT" default:"minio.events.uploads"`
	JobsSubjectPrefix string `envconfig:"JOBS_SUBJECT_PREFIX" default:"media.jobs"`
	AuditSubject      string `envconfig:"AUDIT_SUBJECT" default:"media.audit"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// CloudFrontEnabled reports whether every CloudFront setting is present
func (d DeliveryConfig) CloudFrontEnabled() bool {
	return d.CloudFrontDomain != "" && d.CloudFrontKeyPairID != "" && d.CloudFrontPrivateKey != ""
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
