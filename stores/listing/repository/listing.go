package repository

import (
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/listing"
	"github.com/sealedx/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type listingRepo struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) listing.Repo {
	return &listingRepo{q}
}

func makeFindQuery(optFns ...listing.FindAllOptionsFunc) (bson.M, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
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

	return qry, nil
}

func (r *listingRepo) FindOne(c ctx.Ctx, id asset.Id) (*listing.Listing, error) {
	res := &listing.Listing{}

	if err := r.q.FindOne(c, domain.TableListings, id.LowerCased(), res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *listingRepo) FindAll(c ctx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetFindAllOptions failed")
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

	res := []*listing.Listing{}

	if err := r.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (r *listingRepo) Create(c ctx.Ctx, l *listing.Listing) error {
	l.ContractAddress = l.ContractAddress.ToLower()
	l.Seller = l.Seller.ToLower()

	if err := r.q.Insert(c, domain.TableListings, l); err != nil {
		c.WithField("err", err).WithField("listing", l).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *listingRepo) Remove(c ctx.Ctx, id asset.Id) error {
	if err := r.q.Remove(c, domain.TableListings, id.LowerCased()); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.Remove failed")
		return err
	}
	return nil
}
