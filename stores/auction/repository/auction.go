package repository

import (
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/database/mongoclient"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	"github.com/sealedx/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type auctionRepo struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionRepo{q}
}

func makeFindQuery(optFns ...auction.FindAllOptionsFunc) (bson.M, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
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

	if opts.Seller != nil {
		qry["seller"] = *opts.Seller
	}

	if opts.Finalized != nil {
		qry["finalized"] = *opts.Finalized
	}

	return qry, nil
}

func assetQuery(id asset.Id) bson.M {
	id = id.LowerCased()
	return bson.M{
		"chainId":         id.ChainId,
		"contractAddress": id.ContractAddress,
		"tokenID":         id.TokenId,
	}
}

func (r *auctionRepo) FindLive(c ctx.Ctx, id asset.Id) (*auction.Auction, error) {
	qry := assetQuery(id)
	qry["finalized"] = false

	res := &auction.Auction{}

	if err := r.q.FindOne(c, domain.TableAuctions, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *auctionRepo) FindLatest(c ctx.Ctx, id asset.Id) (*auction.Auction, error) {
	res := []*auction.Auction{}

	if err := r.q.Search(c, domain.TableAuctions, 0, 1, "-createdAt", assetQuery(id), &res); err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.Search failed")
		return nil, err
	}

	if len(res) == 0 {
		return nil, domain.ErrNotFound
	}

	return res[0], nil
}

func (r *auctionRepo) FindByAuctionId(c ctx.Ctx, auctionId string) (*auction.Auction, error) {
	res := &auction.Auction{}

	if err := r.q.FindOne(c, domain.TableAuctions, bson.M{"auctionId": auctionId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("auctionId", auctionId).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *auctionRepo) FindAll(c ctx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	qry, err := makeFindQuery(optFns...)
	if err != nil {
		c.WithField("err", err).Error("makeFindQuery failed")
		return nil, err
	}

	offset := 0
	limit := 0
	sort := "-createdAt"

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

	res := []*auction.Auction{}

	if err := r.q.Search(c, domain.TableAuctions, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (r *auctionRepo) Create(c ctx.Ctx, a *auction.Auction) error {
	a.ContractAddress = a.ContractAddress.ToLower()
	a.Seller = a.Seller.ToLower()
	a.HighestBidder = a.HighestBidder.ToLower()

	if err := r.q.Insert(c, domain.TableAuctions, a); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"auction": a,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *auctionRepo) Patch(c ctx.Ctx, auctionId string, patchable auction.Patchable) error {
	if patchable.HighestBidder != nil {
		patchable.HighestBidder = patchable.HighestBidder.ToLowerPtr()
	}

	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := r.q.Patch(c, domain.TableAuctions, bson.M{"auctionId": auctionId}, updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": auctionId,
			"updater":   updater,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}
