package config

import (
	"beat-ingest/internal/core/domain"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   UploadConfig
	Redis    RedisConfig
	HLS      HLSConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host           string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port           string        `envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"30m"`
}

type MinioConfig struct {
	Endpoint                string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName              string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey               string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey               string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UploadPresignedDuration time.Duration `envconfig:"MINIO_UPLOAD_PRESIGNED_DURATION" default:"1h"`
	DownloadSignedDuration  time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"1h"`
	UseSSL                  bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

// UploadConfig holds the chunked upload policy
type UploadConfig struct {
	MinChunkSize      ByteSize      `envconfig:"UPLOAD_MIN_CHUNK_SIZE" default:"1MiB"`
	DefaultChunkSize  ByteSize      `envconfig:"UPLOAD_DEFAULT_CHUNK_SIZE" default:"10MiB"`
	MaxChunkSize      ByteSize      `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"25MiB"`
	MaxFileSize       ByteSize      `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"5GiB"`
	SessionTTL        time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	SweepEvery        time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"1h"`
	ChunkURLExpiry    time.Duration `envconfig:"UPLOAD_CHUNK_URL_EXPIRY" default:"1h"`
	DownloadURLExpiry time.Duration `envconfig:"UPLOAD_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

// DefaultUploadConfig returns the policy defaults without reading the environment
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MinChunkSize:      1 * units.MiB,
		DefaultChunkSize:  10 * units.MiB,
		MaxChunkSize:      25 * units.MiB,
		MaxFileSize:       5 * units.GiB,
		SessionTTL:        24 * time.Hour,
		SweepEvery:        time.Hour,
		ChunkURLExpiry:    time.Hour,
		DownloadURLExpiry: time.Hour,
	}
}

type RedisConfig struct {
	Enabled   bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"upload-session:"`
}

type HLSConfig struct {
	SegmentSeconds    float64       `envconfig:"HLS_SEGMENT_SECONDS" default:"10"`
	Ladder            QualityLadder `envconfig:"HLS_LADDER"`
	FFmpegBinary      string        `envconfig:"FFMPEG_BINARY" default:"ffmpeg"`
	FFprobeBinary     string        `envconfig:"FFPROBE_BINARY" default:"ffprobe"`
	WorkDir           string        `envconfig:"HLS_WORK_DIR" default:"/tmp/beat-ingest/hls"`
	PlaylistURLExpiry time.Duration `envconfig:"HLS_PLAYLIST_URL_EXPIRY" default:"168h"`
}

type NATSConfig struct {
	URL          string        `envconfig:"NATS_URL" required:"true"`
	StreamName   string        `envconfig:"NATS_STREAM_NAME" default:"MEDIA"`
	ConsumerName string        `envconfig:"NATS_CONSUMER_NAME" default:"hls-worker"`
	Subject      string        `envconfig:"NATS_SUBJECT" default:"media.upload.completed"`
	AckWait      time.Duration `envconfig:"NATS_ACK_WAIT" default:"5m"`
	MaxDeliver   int           `envconfig:"NATS_MAX_DELIVER" default:"5"`
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

// ByteSize is a size in bytes read from human units ("10MiB", "5GiB" or plain bytes)
type ByteSize int64

// Decode implements envconfig.Decoder
func (b *ByteSize) Decode(value string) error {
	size, err := units.RAMInBytes(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", value, err)
	}
	*b = ByteSize(size)
	return nil
}

// Bytes returns the size as int64
func (b ByteSize) Bytes() int64 {
	return int64(b)
}

// QualityLadder is read from "name:bitrate:samplerate:channels:codec;..."
type QualityLadder []domain.Quality

// Decode implements envconfig.Decoder
func (l *QualityLadder) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*l = nil
		return nil
	}

	var ladder QualityLadder
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ":")
		if len(fields) != 5 {
			return fmt.Errorf("invalid ladder entry %q: expected name:bitrate:samplerate:channels:codec", entry)
		}
		bitrate, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || bitrate <= 0 {
			return fmt.Errorf("invalid ladder bitrate %q", fields[1])
		}
		sampleRate, err := strconv.Atoi(fields[2])
		if err != nil || sampleRate <= 0 {
			return fmt.Errorf("invalid ladder sample rate %q", fields[2])
		}
		channels, err := strconv.Atoi(fields[3])
		if err != nil || channels <= 0 {
			return fmt.Errorf("invalid ladder channels %q", fields[3])
		}
		ladder = append(ladder, domain.Quality{
			Name:         fields[0],
			BitrateBps:   bitrate,
			SampleRateHz: sampleRate,
			Channels:     channels,
			Codec:        fields[4],
		})
	}
	*l = ladder
	return nil
}

// Qualities returns the configured ladder or the default one
func (c HLSConfig) Qualities() []domain.Quality {
	if len(c.Ladder) == 0 {
		return domain.DefaultQualityLadder()
	}
	return c.Ladder
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Upload.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (u UploadConfig) validate() error {
	if u.MinChunkSize <= 0 || u.MinChunkSize > u.MaxChunkSize {
		return fmt.Errorf("upload chunk bounds invalid: min %d, max %d", u.MinChunkSize, u.MaxChunkSize)
	}
	if u.DefaultChunkSize < u.MinChunkSize || u.DefaultChunkSize > u.MaxChunkSize {
		return fmt.Errorf("default chunk size %d outside [%d, %d]", u.DefaultChunkSize, u.MinChunkSize, u.MaxChunkSize)
	}
	if u.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	return nil
}
