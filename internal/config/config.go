package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type BackupDriver string

const (
	BackupLocal BackupDriver = "local"
	BackupMinio BackupDriver = "minio"
	BackupS3    BackupDriver = "s3"
)

type Settings struct {
	UploadsDir     string
	UploadsBaseURL string

	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	Optimisation model.Settings

	RecordsPath    string
	ProbeTTL       time.Duration
	ExecDisabled   bool
	EncoderTimeout time.Duration

	BackupDriver   BackupDriver
	BackupDir      string
	BackupBucket   string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string

	RedisAddr     string
	RedisPassword string
	JWTSecret     string
}

var required = []string{
	"UPLOADS_DIR",
	"UPLOADS_BASE_URL",
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	uploadsDir := filepath.Clean(viper.GetString("UPLOADS_DIR"))

	opt := model.DefaultSettings()
	opt.Quality = intOr("QUALITY", model.DefaultQuality)
	opt.BulkQuality = intOr("BULK_QUALITY", opt.Quality)
	opt.AVIFSpeed = intOr("AVIF_SPEED", model.DefaultAVIFSpeed)
	opt.WebPEnabled = boolOr("WEBP_ENABLED", true)
	opt.AVIFEnabled = boolOr("AVIF_ENABLED", true)
	opt.PreserveOriginals = boolOr("PRESERVE_ORIGINALS", false)
	opt.RecordsEnabled = boolOr("RECORDS_ENABLED", true)
	opt.MaxRecords = intOr("RECORDS_MAX", model.DefaultMaxRecords)
	opt.BulkBatchSize = intOr("BULK_BATCH_SIZE", opt.BulkBatchSize)

	driver := BackupDriver(strings.ToLower(stringOr("BACKUP_DRIVER", string(BackupLocal))))
	switch driver {
	case BackupLocal, BackupMinio, BackupS3:
	default:
		return nil, fmt.Errorf("BACKUP_DRIVER %q is not one of local, minio, s3", driver)
	}

	s := &Settings{
		UploadsDir:      uploadsDir,
		UploadsBaseURL:  strings.TrimRight(viper.GetString("UPLOADS_BASE_URL"), "/"),
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),
		Optimisation:    opt.Clamp(),
		RecordsPath:     stringOr("RECORDS_PATH", filepath.Join(uploadsDir, ".records")),
		ProbeTTL:        time.Duration(intOr("PROBE_TTL", 1800)) * time.Second,
		ExecDisabled:    boolOr("EXEC_DISABLED", false),
		EncoderTimeout:  time.Duration(intOr("ENCODER_TIMEOUT", 120)) * time.Second,
		BackupDriver:    driver,
		BackupDir:       stringOr("BACKUP_DIR", filepath.Join(uploadsDir, ".backups")),
		BackupBucket:    stringOr("BACKUP_BUCKET", "originals"),
		MinioEndpoint:   viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     boolOr("MINIO_USE_SSL", false),
		S3Region:        viper.GetString("S3_REGION"),
		S3AccessKey:     viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:     viper.GetString("S3_SECRET_KEY"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
	}

	if s.BackupDriver == BackupMinio && s.MinioEndpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required when BACKUP_DRIVER is minio")
	}
	if s.BackupDriver == BackupS3 && s.S3Region == "" {
		return nil, fmt.Errorf("S3_REGION is required when BACKUP_DRIVER is s3")
	}

	return s, nil
}

func intOr(key string, def int) int {
	if !viper.IsSet(key) || viper.GetString(key) == "" {
		return def
	}
	return viper.GetInt(key)
}

func boolOr(key string, def bool) bool {
	if !viper.IsSet(key) || viper.GetString(key) == "" {
		return def
	}
	return viper.GetBool(key)
}

func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}
