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

type bidRepo struct {
	q query.Mongo
}

func NewBidRepo(q query.Mongo) auction.BidRepo {
	return &bidRepo{q}
}

func bidIdQuery(id auction.BidId) bson.M {
	return bson.M{
		"auctionId": id.AuctionId,
		"bidder":    id.Bidder.ToLower(),
	}
}

func (r *bidRepo) FindOne(c ctx.Ctx, id auction.BidId) (*auction.Bid, error) {
	res := &auction.Bid{}

	if err := r.q.FindOne(c, domain.TableBids, bidIdQuery(id), res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *bidRepo) FindByBidder(c ctx.Ctx, assetId asset.Id, bidder domain.Address) ([]*auction.Bid, error) {
	assetId = assetId.LowerCased()
	qry := bson.M{
		"chainId":         assetId.ChainId,
		"contractAddress": assetId.ContractAddress,
		"tokenID":         assetId.TokenId,
		"bidder":          bidder.ToLower(),
	}

	res := []*auction.Bid{}

	if err := r.q.Search(c, domain.TableBids, 0, 0, "createdAt", qry, &res); err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (r *bidRepo) FindByAuction(c ctx.Ctx, auctionId string) ([]*auction.Bid, error) {
	res := []*auction.Bid{}

	if err := r.q.Search(c, domain.TableBids, 0, 0, "createdAt", bson.M{"auctionId": auctionId}, &res); err != nil {
		c.WithField("err", err).WithField("auctionId", auctionId).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (r *bidRepo) Create(c ctx.Ctx, b *auction.Bid) error {
	b.ContractAddress = b.ContractAddress.ToLower()
	b.Bidder = b.Bidder.ToLower()

	if err := r.q.Insert(c, domain.TableBids, b); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"bid": b,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *bidRepo) Patch(c ctx.Ctx, id auction.BidId, patchable auction.BidPatchable) error {
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := r.q.Patch(c, domain.TableBids, bidIdQuery(id), updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"id":      id,
			"updater": updater,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *bidRepo) Remove(c ctx.Ctx, id auction.BidId) error {
	if err := r.q.Remove(c, domain.TableBids, bidIdQuery(id)); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.Remove failed")
		return err
	}
	return nil
}
