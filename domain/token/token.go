package token

import (
	"math/big"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
)

// Balance is one account's fungible-token balance, stored as a
// decimal-integer string.
type Balance struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	Account domain.Address `json:"account" bson:"account"`
	Balance string         `json:"balance" bson:"balance"`
}

// Allowance is the amount spender may move out of owner's balance.
type Allowance struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	Owner   domain.Address `json:"owner" bson:"owner"`
	Spender domain.Address `json:"spender" bson:"spender"`
	Amount  string         `json:"amount" bson:"amount"`
}

type Repo interface {
	FindBalance(c ctx.Ctx, chainId domain.ChainId, account domain.Address) (*Balance, error)
	SetBalance(c ctx.Ctx, chainId domain.ChainId, account domain.Address, balance *big.Int) error
	FindAllowance(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address) (*Allowance, error)
	SetAllowance(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address, amount *big.Int) error
}

// UseCase is the fungible-token ledger surface. It implements
// domain.TokenLedger for the marketplace engine and adds mint/approve
// management.
type UseCase interface {
	domain.TokenLedger
	Mint(c ctx.Ctx, chainId domain.ChainId, to domain.Address, amount *big.Int) error
	Approve(c ctx.Ctx, chainId domain.ChainId, owner, spender domain.Address, amount *big.Int) error
}
