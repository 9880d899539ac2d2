package asset

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
)

// Id is the asset key: one listable, auctionable non-fungible unit.
type Id struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
}

func (id Id) LowerCased() Id {
	id.ContractAddress = id.ContractAddress.ToLower()
	return id
}

type Asset struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
	Owner           domain.Address `json:"owner" bson:"owner"`
	TokenUri        string         `json:"tokenUri" bson:"tokenURI"`
	MintedAt        time.Time      `json:"mintedAt" bson:"mintedAt"`
}

func (a *Asset) ToId() Id {
	return Id{
		ChainId:         a.ChainId,
		ContractAddress: a.ContractAddress,
		TokenId:         a.TokenId,
	}
}

// Approval marks operator as approved to transfer any of owner's assets
// on a chain, mirroring erc721 setApprovalForAll. The registry spans
// collections, so the grant is scoped per owner and operator.
type Approval struct {
	ChainId  domain.ChainId `json:"chainId" bson:"chainId"`
	Owner    domain.Address `json:"owner" bson:"owner"`
	Operator domain.Address `json:"operator" bson:"operator"`
	Approved bool           `json:"approved" bson:"approved"`
}

type Repo interface {
	FindOne(c ctx.Ctx, id Id) (*Asset, error)
	Create(c ctx.Ctx, a *Asset) error
	SetOwner(c ctx.Ctx, id Id, owner domain.Address) error
	FindApproval(c ctx.Ctx, chainId domain.ChainId, owner, operator domain.Address) (*Approval, error)
	UpsertApproval(c ctx.Ctx, approval *Approval) error
}

// UseCase is the registry surface. It implements domain.AssetRegistry
// for the marketplace engine and adds mint/approve management.
type UseCase interface {
	domain.AssetRegistry
	Mint(c ctx.Ctx, a *Asset) error
	SetApprovalForAll(c ctx.Ctx, chainId domain.ChainId, owner, operator domain.Address, approved bool) error
	Get(c ctx.Ctx, id Id) (*Asset, error)
}
