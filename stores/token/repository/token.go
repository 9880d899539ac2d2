package repository

import (
	"math/big"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/token"
	"github.com/sealedx/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type tokenRepo struct {
	q query.Mongo
}

func NewTokenRepo(q query.Mongo) token.Repo {
	return &tokenRepo{q}
}

func (r *tokenRepo) FindBalance(c ctx.Ctx, chainId domain.ChainId, account domain.Address) (*token.Balance, error) {
	qry := bson.M{
		"chainId": chainId,
		"account": account.ToLower(),
	}

	res := &token.Balance{}

	if err := r.q.FindOne(c, domain.TableTokenBalances, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *tokenRepo) SetBalance(c ctx.Ctx, chainId domain.ChainId, account domain.Address, balance *big.Int) error {
	selector := bson.M{
		"chainId": chainId,
		"account": account.ToLower(),
	}

	updater := token.Balance{
		ChainId: chainId,
		Account: account.ToLower(),
		Balance: balance.String(),
	}

	if err := r.q.Upsert(c, domain.TableTokenBalances, selector, updater); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"updater": updater,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *tokenRepo) FindAllowance(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address) (*token.Allowance, error) {
	qry := bson.M{
		"chainId": chainId,
		"owner":   owner.ToLower(),
		"spender": spender.ToLower(),
	}

	res := &token.Allowance{}

	if err := r.q.FindOne(c, domain.TableTokenAllowances, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("query", qry).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (r *tokenRepo) SetAllowance(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address, amount *big.Int) error {
	selector := bson.M{
		"chainId": chainId,
		"owner":   owner.ToLower(),
		"spender": spender.ToLower(),
	}

	updater := token.Allowance{
		ChainId: chainId,
		Owner:   owner.ToLower(),
		Spender: spender.ToLower(),
		Amount:  amount.String(),
	}

	if err := r.q.Upsert(c, domain.TableTokenAllowances, selector, updater); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"updater": updater,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
