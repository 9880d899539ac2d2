package domain

import (
	"math/big"

	"github.com/sealedx/goapi/base/ctx"
)

// TokenLedger is the fungible-token collaborator the marketplace settles in.
// Moving tokens on a user's behalf requires the user to have pre-granted
// allowance to the spender; a spender moving its own funds needs none.
type TokenLedger interface {
	BalanceOf(c ctx.Ctx, chainId ChainId, account Address) (*big.Int, error)
	Allowance(c ctx.Ctx, chainId ChainId, owner, spender Address) (*big.Int, error)
	TransferFrom(c ctx.Ctx, chainId ChainId, spender, from, to Address, amount *big.Int) error
}

// AssetRegistry is the non-fungible-asset collaborator. Transferring an
// asset on an owner's behalf requires the owner to have approved the
// operator via SetApprovalForAll.
type AssetRegistry interface {
	OwnerOf(c ctx.Ctx, chainId ChainId, contract Address, tokenId TokenId) (Address, error)
	IsApprovedForAll(c ctx.Ctx, chainId ChainId, owner, operator Address) (bool, error)
	TransferFrom(c ctx.Ctx, chainId ChainId, operator, contract Address, tokenId TokenId, from, to Address) error
}
