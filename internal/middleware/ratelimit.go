package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit ограничивает число запросов с одного IP в минуту (token bucket, burst = rpm).
// rpm <= 0 отключает ограничение.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	clients := make(map[string]*clientLimiter)
	var mtx sync.Mutex
	every := rate.Every(time.Minute / time.Duration(rpm))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			now := time.Now()

			mtx.Lock()
			client, exists := clients[ip]
			if !exists {
				client = &clientLimiter{limiter: rate.NewLimiter(every, rpm)}
				clients[ip] = client
			}
			client.lastSeen = now
			evictIdle(clients, now)
			mtx.Unlock()

			reservation := client.limiter.ReserveN(now, 1)
			delay := reservation.DelayFrom(now)

			if !reservation.OK() || delay > 0 {
				reservation.CancelAt(now)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				w.WriteHeader(http.StatusTooManyRequests)

				json.NewEncoder(w).Encode(map[string]any{
					"error":       "rate_limit_exceeded",
					"message":     "Слишком много запросов. Попробуйте позже.",
					"retry_after": int(math.Ceil(delay.Seconds())),
					"request_id":  GetRequestID(r.Context()),
				})
				return
			}

			remaining := int(client.limiter.TokensAt(now))
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// evictIdle удаляет клиентов, не появлявшихся дольше 3 минут; вызывается под mtx.
func evictIdle(clients map[string]*clientLimiter, now time.Time) {
	if len(clients) < 1024 {
		return
	}
	for ip, c := range clients {
		if now.Sub(c.lastSeen) > 3*time.Minute {
			delete(clients, ip)
		}
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
