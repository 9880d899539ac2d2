package usecase

import (
	"math/big"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/token"
	"github.com/sealedx/goapi/service/query"
	"golang.org/x/xerrors"
)

type TokenUseCaseCfg struct {
	TokenRepo token.Repo
	// Query runs the read-modify-write transfer cycle inside one mongo
	// transaction, so concurrent transfers cannot double spend.
	Query query.Mongo
}

type impl struct {
	tokenRepo token.Repo
	q         query.Mongo
}

func New(cfg *TokenUseCaseCfg) token.UseCase {
	return &impl{
		tokenRepo: cfg.TokenRepo,
		q:         cfg.Query,
	}
}

func (im *impl) BalanceOf(c ctx.Ctx, chainId domain.ChainId, account domain.Address) (*big.Int, error) {
	b, err := im.tokenRepo.FindBalance(c, chainId, account)
	if err == domain.ErrNotFound {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(b.Balance, 10)
	if !ok {
		return nil, xerrors.Errorf("big.Int.SetString(%s) failed", b.Balance)
	}
	return n, nil
}

func (im *impl) Allowance(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address) (*big.Int, error) {
	a, err := im.tokenRepo.FindAllowance(c, chainId, owner, spender)
	if err == domain.ErrNotFound {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(a.Amount, 10)
	if !ok {
		return nil, xerrors.Errorf("big.Int.SetString(%s) failed", a.Amount)
	}
	return n, nil
}

func (im *impl) TransferFrom(c ctx.Ctx, chainId domain.ChainId, spender, from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrBadParamInput
	}
	if amount.Sign() == 0 {
		return nil
	}

	spender = spender.ToLower()
	from = from.ToLower()
	to = to.ToLower()

	return im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		// a spender moving its own funds needs no allowance
		if !spender.Equals(from) {
			allowance, err := im.Allowance(c, chainId, from, spender)
			if err != nil {
				return err
			}
			if allowance.Cmp(amount) < 0 {
				return domain.ErrInsufficientAllowance
			}
			if err := im.tokenRepo.SetAllowance(c, chainId, from, spender, new(big.Int).Sub(allowance, amount)); err != nil {
				return err
			}
		}

		fromBalance, err := im.BalanceOf(c, chainId, from)
		if err != nil {
			return err
		}
		if fromBalance.Cmp(amount) < 0 {
			return domain.ErrInsufficientBalance
		}

		if err := im.tokenRepo.SetBalance(c, chainId, from, new(big.Int).Sub(fromBalance, amount)); err != nil {
			return err
		}

		toBalance, err := im.BalanceOf(c, chainId, to)
		if err != nil {
			return err
		}

		if err := im.tokenRepo.SetBalance(c, chainId, to, new(big.Int).Add(toBalance, amount)); err != nil {
			return err
		}

		c.WithFields(log.Fields{
			"chainId": chainId,
			"from":    from,
			"to":      to,
			"amount":  amount.String(),
		}).Info("token transfer")
		return nil
	})
}

func (im *impl) Mint(c ctx.Ctx, chainId domain.ChainId, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrZeroAmount
	}

	to = to.ToLower()

	return im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		balance, err := im.BalanceOf(c, chainId, to)
		if err != nil {
			return err
		}
		return im.tokenRepo.SetBalance(c, chainId, to, new(big.Int).Add(balance, amount))
	})
}

func (im *impl) Approve(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrBadParamInput
	}
	return im.tokenRepo.SetAllowance(c, chainId, owner.ToLower(), spender.ToLower(), amount)
}
