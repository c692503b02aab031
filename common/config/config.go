package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func loadEnvString(key string, result *string) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s
}

func loadEnvUint(key string, result *uint) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return
	}
	*result = uint(n)
}

func loadEnvBool(key string, result *bool) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return
	}
	*result = b
}

func loadEnvDuration(key string, result *time.Duration) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Ignoring invalid duration")
		return
	}
	*result = d
}

/* Configuration */

/* PgSQL Configuration */
type pgSqlConfig struct {
	Host        string `json:"host"`
	Port        uint   `json:"port"`
	Database    string `json:"database"`
	SslMode     string `json:"ssl_mode"`
	User        string `json:"user"`
	Password    string `json:"-"`
	AutoMigrate bool   `json:"auto_migrate"`
}

func (p pgSqlConfig) ConnStr() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.Database, p.SslMode)
}

func defaultPgSql() pgSqlConfig {
	return pgSqlConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "datasources",
		User:     "",
		Password: "",
		SslMode:  "disable",
	}
}

func (p *pgSqlConfig) loadFromEnv() {
	loadEnvString("POSTGRES_HOST", &p.Host)
	loadEnvUint("POSTGRES_PORT", &p.Port)
	loadEnvString("POSTGRES_DB_NAME", &p.Database)
	loadEnvString("POSTGRES_SSLMODE", &p.SslMode)
	loadEnvString("POSTGRES_USERNAME", &p.User)
	loadEnvString("POSTGRES_PASSWORD", &p.Password)
	loadEnvBool("PGSQL_AUTO_MIGRATE", &p.AutoMigrate)
}

/* Listen Configuration */

type listenConfig struct {
	Host string `json:"host"`
	Port uint   `json:"port"`
}

func (l listenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

func defaultListenConfig() listenConfig {
	return listenConfig{
		Host: "127.0.0.1",
		Port: 8080,
	}
}

func (l *listenConfig) loadFromEnv() {
	loadEnvString("LISTEN_HOST", &l.Host)
	loadEnvUint("LISTEN_PORT", &l.Port)
}

type natsConfig struct {
	Enabled  bool
	Host     string
	Port     uint
	Username string
	Password string
}

func (c *natsConfig) loadFromEnv() {
	loadEnvBool("NATS_ENABLED", &c.Enabled)
	c.Host = getEnv("NATS_HOST", c.Host)
	loadEnvUint("NATS_PORT", &c.Port)
	c.Username = getEnv("NATS_USER", c.Username)
	c.Password = getEnv("NATS_PASSWORD", c.Password)
}

func (c *natsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

func defaultNatsConfig() natsConfig {
	return natsConfig{
		Enabled: false,
		Host:    "localhost",
		Port:    4222,
	}
}

type securityConfig struct {
	BackendApiKey string
}

func (s *securityConfig) loadFromEnv() {
	s.BackendApiKey = getEnv("BACKEND_API_KEY", "")
}

func defaultSecurityConfig() securityConfig {
	return securityConfig{
		BackendApiKey: "",
	}
}

type redisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

func (r redisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r *redisConfig) loadFromEnv() {
	loadEnvBool("REDIS_ENABLED", &r.Enabled)
	loadEnvString("REDIS_HOST", &r.Host)
	loadEnvUint("REDIS_PORT", &r.Port)
	loadEnvString("REDIS_PASSWORD", &r.Password)

	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
	log.Info().Interface("redis", r).Msg("Redis config loaded")
}

func defaultRedisConfig() redisConfig {
	return redisConfig{
		Enabled:  false,
		Host:     "localhost",
		Port:     6379,
		Password: "",
		DB:       0,
	}
}

type GCSConfig struct {
	ProjectID       string
	CredentialsFile string
	Bucket          string
	ArchivePrefix   string
	SignedURLTTL    time.Duration
}

// Enabled reports whether exports can be archived.
func (g GCSConfig) Enabled() bool {
	return g.Bucket != ""
}

func (g *GCSConfig) loadFromEnv() {
	g.ProjectID = getEnv("GCS_PROJECT_ID", "")
	g.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", "")
	g.Bucket = getEnv("GCS_STORAGE_BUCKET", "")
	loadEnvString("GCS_ARCHIVE_PREFIX", &g.ArchivePrefix)
	loadEnvDuration("GCS_SIGNED_URL_TTL", &g.SignedURLTTL)
}

func defaultGcsConfig() GCSConfig {
	return GCSConfig{
		ArchivePrefix: "exports",
		SignedURLTTL:  15 * time.Minute,
	}
}

type logConfig struct {
	Level  string
	Format string
}

func (l *logConfig) loadFromEnv() {
	loadEnvString("LOG_LEVEL", &l.Level)
	loadEnvString("LOG_FORMAT", &l.Format)
}

func defaultLogConfig() logConfig {
	return logConfig{
		Level:  "info",
		Format: "console",
	}
}

type ingestConfig struct {
	BatchSize    uint
	FetchTimeout time.Duration
	PreviewLimit uint
	LeaseTTL     time.Duration
}

func (i *ingestConfig) loadFromEnv() {
	loadEnvUint("INGEST_BATCH_SIZE", &i.BatchSize)
	loadEnvDuration("INGEST_FETCH_TIMEOUT", &i.FetchTimeout)
	loadEnvUint("INGEST_PREVIEW_LIMIT", &i.PreviewLimit)
	loadEnvDuration("INGEST_LEASE_TTL", &i.LeaseTTL)
}

func defaultIngestConfig() ingestConfig {
	return ingestConfig{
		BatchSize:    100,
		FetchTimeout: 30 * time.Second,
		PreviewLimit: 10,
		LeaseTTL:     5 * time.Minute,
	}
}

// SeedSource is a permanent source created by the initialize endpoint.
type SeedSource struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type seedConfig struct {
	Sources []SeedSource
}

func (s *seedConfig) loadFromEnv() {
	raw, ok := os.LookupEnv("SEED_SOURCES")
	if !ok || raw == "" {
		return
	}
	var sources []SeedSource
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid SEED_SOURCES")
		return
	}
	s.Sources = sources
}

func defaultSeedConfig() seedConfig {
	return seedConfig{}
}

type Config struct {
	Listen   listenConfig
	PgSql    pgSqlConfig
	Security securityConfig
	Nats     natsConfig
	Redis    redisConfig
	GCS      GCSConfig
	Log      logConfig
	Ingest   ingestConfig
	Seed     seedConfig
}

func (c *Config) LoadFromEnv() {
	c.Listen.loadFromEnv()
	c.PgSql.loadFromEnv()
	c.Security.loadFromEnv()
	c.Nats.loadFromEnv()
	c.Redis.loadFromEnv()
	c.GCS.loadFromEnv()
	c.Log.loadFromEnv()
	c.Ingest.loadFromEnv()
	c.Seed.loadFromEnv()
}

func DefaultConfig() Config {
	return Config{
		Listen:   defaultListenConfig(),
		PgSql:    defaultPgSql(),
		Security: defaultSecurityConfig(),
		Nats:     defaultNatsConfig(),
		Redis:    defaultRedisConfig(),
		GCS:      defaultGcsConfig(),
		Log:      defaultLogConfig(),
		Ingest:   defaultIngestConfig(),
		Seed:     defaultSeedConfig(),
	}
}
