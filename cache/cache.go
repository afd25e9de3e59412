package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"uroreport-backend/utils"

	"github.com/redis/go-redis/v9"
)

// Cache Redis pour les agrégats statistiques. Entièrement optionnel :
// sans REDIS_URL, toutes les opérations sont des no-ops et les handlers
// retombent sur la base.

var Client *redis.Client

var ctx = context.Background()

// Clés des agrégats mis en cache
const (
	DashboardKey   = "stats:dashboard"
	DiseasesKey    = "stats:diseases"
	AgeKey         = "stats:age_distribution"
	GenderKey      = "stats:gender"
	FlowMetricsKey = "stats:flow_metrics"
)

// StatsTTL durée de vie des agrégats en cache
const StatsTTL = 5 * time.Minute

// InvalidateStats purge tous les agrégats après une mutation de rapport
func InvalidateStats() {
	Invalidate(DashboardKey, DiseasesKey, AgeKey, GenderKey, FlowMetricsKey)
}

func InitCache() {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		utils.LogInfo("REDIS_URL not set, stats caching disabled")
		return
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		utils.LogError(err, "Invalid REDIS_URL, stats caching disabled")
		return
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		utils.LogError(err, "Could not reach Redis, stats caching disabled")
		return
	}

	Client = client
	utils.LogSuccess("Redis cache connection successful")
}

// GetJSON lit et décode une entrée de cache. Retourne false sur miss,
// cache désactivé ou entrée illisible.
func GetJSON(key string, dest interface{}) bool {
	if Client == nil {
		return false
	}

	raw, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.LogError(err, "Error reading from the stats cache")
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		utils.LogError(err, "Corrupt stats cache entry, ignoring")
		return false
	}
	return true
}

// SetJSON encode et stocke une entrée de cache avec TTL
func SetJSON(key string, value interface{}, ttl time.Duration) {
	if Client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		utils.LogError(err, "Error encoding a stats cache entry")
		return
	}

	if err := Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		utils.LogError(err, "Error writing to the stats cache")
	}
}

// Invalidate supprime des entrées de cache après une mutation de rapport
func Invalidate(keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil {
		utils.LogError(err, "Error invalidating stats cache entries")
	}
}
