package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gaurosa-backend/shared/config"
)

// CacheManager wraps the Redis client used for catalog sync caching.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager

	SyncedIDsTTL = 10 * time.Minute

	syncedIDsKey = "sync:products:mazgest_ids"
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance, or nil when
// Redis is unavailable. Callers treat nil as a cache miss.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// GetSyncedProductIDs returns the cached MazGest ID list, or false on miss.
func (cm *CacheManager) GetSyncedProductIDs() ([]int, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	raw, err := cm.client.Get(cm.ctx, syncedIDsKey).Result()
	if err != nil {
		return nil, false
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("❌ Corrupt synced IDs cache entry, dropping: %v", err)
		cm.client.Del(cm.ctx, syncedIDsKey)
		return nil, false
	}
	return ids, true
}

// SetSyncedProductIDs caches the MazGest ID list.
func (cm *CacheManager) SetSyncedProductIDs(ids []int) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return cm.client.Set(cm.ctx, syncedIDsKey, raw, SyncedIDsTTL).Err()
}

// InvalidateSyncedProductIDs drops the cached ID list. Called after any
// product sync or delete batch.
func (cm *CacheManager) InvalidateSyncedProductIDs() {
	if cm == nil || cm.client == nil {
		return
	}
	if err := cm.client.Del(cm.ctx, syncedIDsKey).Err(); err != nil {
		log.Printf("❌ Failed to invalidate synced IDs cache: %v", err)
	}
}
