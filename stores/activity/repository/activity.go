package repository

import (
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/activity"
	"github.com/sealedx/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type activityRepo struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) activity.Repo {
	return &activityRepo{q}
}

func makeFindQuery(optFns ...activity.FindAllOptionsFunc) (bson.M, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	qry := bson.M{}

	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}

	if opts.Erc721 != nil {
		qry["contractAddress"] = *opts.Erc721
	}

	if opts.TokenId != nil {
		qry["tokenId"] = *opts.TokenId
	}

	if opts.Account != nil {
		qry["$or"] = bson.A{
			bson.M{"account": *opts.Account},
			bson.M{"to": *opts.Account},
		}
	}

	if opts.Type != nil {
		qry["type"] = *opts.Type
	}

	return qry, nil
}

func (r *activityRepo) Insert(c ctx.Ctx, a *activity.Activity) error {
	a.ContractAddress = a.ContractAddress.ToLower()
	a.Account = a.Account.ToLower()
	a.To = a.To.ToLower()

	if err := r.q.Insert(c, domain.TableActivities, a); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"activity": a,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *activityRepo) FindAll(c ctx.Ctx, optFns ...activity.FindAllOptionsFunc) ([]*activity.Activity, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("activity.GetFindAllOptions failed")
		return nil, err
	}

	qry, err := makeFindQuery(optFns...)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return nil, err
	}

	offset := 0
	limit := 0
	sort := "-time"

	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}

	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	if opts.SortBy != nil && opts.SortDir != nil {
		sort = *opts.SortBy
		if *opts.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	res := []*activity.Activity{}

	if err := r.q.Search(c, domain.TableActivities, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}
