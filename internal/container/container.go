package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javierbuenopatience/patience-backend/config"
	"github.com/javierbuenopatience/patience-backend/internal/infrastructure/blob"
	"github.com/javierbuenopatience/patience-backend/pkg/password"
	"github.com/javierbuenopatience/patience-backend/pkg/queue"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	storage     blob.Storage
	hasher      password.Hasher
	publisher   *queue.Publisher
)

func SetConfig(c *config.Config)      { cfg = c }
func GetConfig() *config.Config       { return cfg }
func SetLogger(l *logrus.Logger)      { logger = l }
func GetLogger() *logrus.Logger       { return logger }
func SetPGPool(p *pgxpool.Pool)       { pgPool = p }
func GetPGPool() *pgxpool.Pool        { return pgPool }
func SetRedis(r *redis.Client)        { redisClient = r }
func GetRedis() *redis.Client         { return redisClient }
func SetStorage(s blob.Storage)       { storage = s }
func GetStorage() blob.Storage        { return storage }
func SetHasher(h password.Hasher)     { hasher = h }
func GetHasher() password.Hasher      { return hasher }
func SetPublisher(p *queue.Publisher) { publisher = p }
func GetPublisher() *queue.Publisher  { return publisher }
