package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/memory"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// app-level container sharing the components built in main.
// Optional components (Redis, GCS, RabbitMQ, Elasticsearch) may stay nil;
// the router wires around them.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.DiscardLogger()
	}
	return logger
}

func SetPGPool(p *pgxpool.Pool)      { pgPool = p }
func GetPGPool() *pgxpool.Pool       { return pgPool }
func SetMemoryStore(s *memory.Store) { memStore = s }
func GetMemoryStore() *memory.Store  { return memStore }
func SetRedis(r *redis.Client)       { redisClient = r }
func GetRedis() *redis.Client        { return redisClient }
func SetGCS(s *storage.Client)       { gcsClient = s }
func GetGCS() *storage.Client        { return gcsClient }
func SetJWT(m *helpers.JWTManager)   { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.TokenTTL)
	}
	return jwtManager
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// Reset clears every component. Used between tests.
func Reset() {
	cfg, logger, pgPool, memStore, redisClient, gcsClient = nil, nil, nil, nil, nil, nil
	jwtManager, rabbitPub, esClient = nil, nil, nil
}
