package usecase

import (
	"encoding/json"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain/activity"
	"github.com/sealedx/goapi/domain/keys"
	"github.com/sealedx/goapi/service/redis"
)

type ActivityUseCaseCfg struct {
	ActivityRepo activity.Repo
	Redis        redis.Service
}

type impl struct {
	activityRepo activity.Repo
	redis        redis.Service
}

func New(cfg *ActivityUseCaseCfg) activity.UseCase {
	return &impl{
		activityRepo: cfg.ActivityRepo,
		redis:        cfg.Redis,
	}
}

// Record persists the notification and fans it out over redis pub/sub.
// Failures are logged and swallowed so recording can never undo the
// state change it describes.
func (im *impl) Record(c ctx.Ctx, a *activity.Activity) {
	if err := im.activityRepo.Insert(c, a); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"activity": a,
		}).Error("activityRepo.Insert failed")
		return
	}

	if im.redis == nil {
		return
	}

	payload, err := json.Marshal(a)
	if err != nil {
		c.WithField("err", err).Error("json.Marshal failed")
		return
	}

	channel := keys.RedisKey(keys.PfxEvents, string(a.Type))
	if err := im.redis.Publish(c, channel, payload); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"channel": channel,
		}).Warn("redis.Publish failed")
	}
}

func (im *impl) FindAll(c ctx.Ctx, opts ...activity.FindAllOptionsFunc) ([]*activity.Activity, error) {
	return im.activityRepo.FindAll(c, opts...)
}
