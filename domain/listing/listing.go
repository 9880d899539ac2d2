package listing

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
)

type Listing struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	Price           string         `json:"price" bson:"price"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
}

func (l *Listing) ToId() asset.Id {
	return asset.Id{
		ChainId:         l.ChainId,
		ContractAddress: l.ContractAddress,
		TokenId:         l.TokenId,
	}
}

type FindAllOptions struct {
	SortBy  *string
	SortDir *domain.SortDir
	Offset  *int32
	Limit   *int32
	ChainId *domain.ChainId
	Erc721  *domain.Address
	Seller  *domain.Address
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithContractAddress(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Erc721 = contract.ToLowerPtr()
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindOne(c ctx.Ctx, id asset.Id) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	Create(c ctx.Ctx, l *Listing) error
	Remove(c ctx.Ctx, id asset.Id) error
}

type UseCase interface {
	// List creates a fixed-price listing. The seller must own the asset
	// and have approved the marketplace operator on the registry.
	List(c ctx.Ctx, seller domain.Address, id asset.Id, price string) (*Listing, error)
	// Buy settles the listing: price moves buyer to seller, the asset
	// moves seller to buyer, and the listing is deleted. All or nothing.
	Buy(c ctx.Ctx, buyer domain.Address, id asset.Id) (*Listing, error)
	Cancel(c ctx.Ctx, caller domain.Address, id asset.Id) error
	Get(c ctx.Ctx, id asset.Id) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
}
