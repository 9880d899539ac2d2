package repository

import (
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type assetRepo struct {
	q query.Mongo
}

func NewAssetRepo(q query.Mongo) asset.Repo {
	return &assetRepo{q}
}

func (r *assetRepo) FindOne(c ctx.Ctx, id asset.Id) (*asset.Asset, error) {
	res := &asset.Asset{}

	if err := r.q.FindOne(c, domain.TableAssets, id.LowerCased(), res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *assetRepo) Create(c ctx.Ctx, a *asset.Asset) error {
	a.ContractAddress = a.ContractAddress.ToLower()
	a.Owner = a.Owner.ToLower()

	if err := r.q.Insert(c, domain.TableAssets, a); err == query.ErrDuplicateKey {
		return domain.ErrInvalidState
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"asset": a,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *assetRepo) SetOwner(c ctx.Ctx, id asset.Id, owner domain.Address) error {
	updater := bson.M{"owner": owner.ToLower()}

	if err := r.q.Patch(c, domain.TableAssets, id.LowerCased(), updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"id":    id,
			"owner": owner,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *assetRepo) FindApproval(c ctx.Ctx, chainId domain.ChainId, owner, operator domain.Address) (*asset.Approval, error) {
	qry := bson.M{
		"chainId":  chainId,
		"owner":    owner.ToLower(),
		"operator": operator.ToLower(),
	}

	res := &asset.Approval{}

	if err := r.q.FindOne(c, domain.TableAssetApprovals, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *assetRepo) UpsertApproval(c ctx.Ctx, approval *asset.Approval) error {
	approval.Owner = approval.Owner.ToLower()
	approval.Operator = approval.Operator.ToLower()

	selector := bson.M{
		"chainId":  approval.ChainId,
		"owner":    approval.Owner,
		"operator": approval.Operator,
	}

	if err := r.q.Upsert(c, domain.TableAssetApprovals, selector, approval); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"approval": approval,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
