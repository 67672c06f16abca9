package middleware

import (
	"net/http"
	"strconv"
	"time"

	"clinica/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPLimiter builds an in-memory per-IP limiter from a formatted rate
// such as "1000-M". An invalid format falls back to 1000 requests per minute.
func NewIPLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Warn().Str("rate", formatted).Err(err).Msg("invalid RATE_LIMIT, using 1000-M")
		rate, _ = limiter.NewRateFromFormatted("1000-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// RateLimiter rejects clients over their quota with 429. A limiter store
// failure lets the request through: availability wins over throttling.
func RateLimiter(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ctx, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("rate limiter store error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		if ctx.Reached {
			log.Warn().Str("ip", ip).Int64("limit", ctx.Limit).Msg("rate limit exceeded")
			retry := ctx.Reset - time.Now().Unix() // Reset is a unix timestamp
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
