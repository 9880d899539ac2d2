package redis

import (
	"errors"
	"time"

	"github.com/sealedx/goapi/base/ctx"
)

// ErrNotFound is returned when the key does not exist
var ErrNotFound = errors.New("key not found")

// Service provides interface for redis
type Service interface {
	Get(context ctx.Ctx, key string) (val []byte, err error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// Publish sends the payload to every subscriber of the channel.
	Publish(context ctx.Ctx, channel string, payload []byte) error
}
