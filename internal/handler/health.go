package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	estadoOK    = "connected"
	estadoError = "error"
)

// Health reports each dependency the statement endpoints need. Statement
// saves are serialized through a Redis lock, so save_lock follows Redis and a
// Redis outage makes the service unhealthy even if reads would still work.
// Never exposes credentials or driver errors.
func Health(db *gorm.DB, rdb redis.UniversalClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{
			"db":    estadoDB(ctx, db),
			"redis": estadoRedis(ctx, rdb),
		}
		checks["save_lock"] = checks["redis"]

		status := http.StatusOK
		for _, v := range checks {
			if v != estadoOK {
				status = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func estadoDB(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return estadoError
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return estadoError
	}
	return estadoOK
}

func estadoRedis(ctx context.Context, rdb redis.UniversalClient) string {
	if rdb == nil || rdb.Ping(ctx).Err() != nil {
		return estadoError
	}
	return estadoOK
}
