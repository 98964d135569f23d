package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter applique la même fenêtre glissante que MemoryLimiter sur un
// sorted set Redis par clé, partagé entre plusieurs instances du serveur.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	max, window = sanitize(max, window)
	return &RedisLimiter{client: client, prefix: prefix, max: max, window: window, now: time.Now}
}

// WithClock remplace l'horloge (tests)
func (l *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	l.now = now
	return l
}

// slidingWindow purge, compte et enregistre en un seul aller-retour : deux
// instances ne peuvent pas accepter la même place libre.
// Renvoie {autorisé, nombre dans la fenêtre, score de la plus ancienne tentative}.
var slidingWindow = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max    = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local score = now
	if oldest[2] then
		score = tonumber(oldest[2])
	end
	return {0, count, score}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, now}
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	res, err := slidingWindow.Run(ctx, l.client, []string{l.prefix + key},
		now.UnixMilli(), l.window.Milliseconds(), l.max, uuid.NewString()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("réponse inattendue du script de limitation : %v", res)
	}

	if res[0] == 1 {
		return Decision{Allowed: true, Remaining: l.max - int(res[1])}, nil
	}
	retry := time.UnixMilli(res[2]).Add(l.window).Sub(now)
	if retry <= 0 {
		retry = time.Millisecond
	}
	return Decision{Allowed: false, RetryAfter: retry}, nil
}
