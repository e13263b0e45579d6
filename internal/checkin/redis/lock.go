package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes scan processing per ticket. The check-in and
// check-out preconditions are read from the log tail, so the
// read-check-append sequence must not interleave for the same ticket.
type Redis struct {
	Client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

// getScanLockTTL returns the lock TTL from the environment or the
// default. The TTL is a safety net against a crashed holder; locks are
// normally released explicitly at the end of the scan request.
func (r *Redis) getScanLockTTL() time.Duration {
	defaultTTL := 10 * time.Second

	ttlStr := os.Getenv("SCAN_LOCK_TTL_SECONDS")
	if ttlStr == "" {
		return defaultTTL
	}
	ttlSec, err := strconv.Atoi(ttlStr)
	if err != nil || ttlSec <= 0 {
		return defaultTTL
	}
	return time.Duration(ttlSec) * time.Second
}

func scanLockKey(ticketID int64) string {
	return fmt.Sprintf("qr_check_lock:%d", ticketID)
}

// LockTicket acquires the per-ticket scan lock. Returns false when
// another scan of the same ticket is in flight.
func (r *Redis) LockTicket(ctx context.Context, ticketID int64) (bool, error) {
	return r.Client.SetNX(ctx, scanLockKey(ticketID), "1", r.getScanLockTTL()).Result()
}

// UnlockTicket releases the scan lock. Releasing a lock that already
// expired is not an error.
func (r *Redis) UnlockTicket(ctx context.Context, ticketID int64) error {
	_, err := r.Client.Del(ctx, scanLockKey(ticketID)).Result()
	if err == redis.Nil {
		return nil
	}
	return err
}
