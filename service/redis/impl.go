package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/base/metrics"
)

const (
	keyAttribute = "key"
)

type redImpl struct {
	name  string
	met   metrics.Service
	pools *Pools
}

// Pools represents different pool types
type Pools struct {
	Src *redis.Pool
}

// New redis pool
func New(name string, metrics metrics.Service, pools *Pools) Service {
	return &redImpl{
		name:  name,
		met:   metrics,
		pools: pools,
	}
}

func (r *redImpl) getConn() redis.Conn {
	return r.pools.Src.Get()
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	defer r.met.BumpTime("time", "command", commandName).End()

	conn := r.getConn()
	defer conn.Close()

	reply, err := conn.Do(commandName, args...)
	if err != nil {
		r.met.BumpSum("conn.do.err", 1, "command", commandName)
		context.WithFields(log.Fields{
			"err":     err,
			"command": commandName,
		}).Error("conn.Do failed")
		return nil, err
	}
	return reply, nil
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	context = ctx.WithValue(context, keyAttribute, key)

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		context.WithField("err", err).Error("redis GET failed")
		return nil, err
	}
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	context = ctx.WithValue(context, keyAttribute, key)

	var err error
	if expire > 0 {
		_, err = r.connDo(context, "SET", key, val, "PX", int64(expire/time.Millisecond))
	} else {
		_, err = r.connDo(context, "SET", key, val)
	}
	if err != nil {
		context.WithField("err", err).Error("redis SET failed")
		return err
	}
	return nil
}

func (r *redImpl) Publish(context ctx.Ctx, channel string, payload []byte) error {
	if _, err := r.connDo(context, "PUBLISH", channel, payload); err != nil {
		context.WithFields(log.Fields{
			"err":     err,
			"channel": channel,
		}).Error("redis PUBLISH failed")
		return err
	}
	return nil
}
