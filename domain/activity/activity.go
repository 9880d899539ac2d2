package activity

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
)

type Type string

const (
	// marketplace
	TypeList          Type = "list"
	TypeBuy           Type = "buy"
	TypeCancelListing Type = "cancelListing"

	// auction
	TypeAuctionStarted Type = "auctionStarted"
	TypeBidPlaced      Type = "bidPlaced"
	TypeBidRevealed    Type = "bidRevealed"
	TypeBidRefunded    Type = "bidRefunded"
	TypeAuctionEnded   Type = "auctionEnded"
)

// Activity is one notification record. Every state change the engine
// performs appends one, so callers enumerate marketplace history from
// this collection instead of polling asset id ranges.
type Activity struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Type            Type           `json:"type" bson:"type"`
	Account         domain.Address `json:"account" bson:"account"`
	To              domain.Address `json:"to" bson:"to"`
	Price           string         `json:"price" bson:"price"`
	Time            time.Time      `json:"time" bson:"time"`
}

type FindAllOptions struct {
	SortBy  *string
	SortDir *domain.SortDir
	Offset  *int32
	Limit   *int32
	ChainId *domain.ChainId
	Erc721  *domain.Address
	TokenId *domain.TokenId
	Account *domain.Address
	Type    *Type
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

func WithToken(contract domain.Address, tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Erc721 = contract.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func WithAccount(account domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Account = account.ToLowerPtr()
		return nil
	}
}

func WithType(t Type) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Type = &t
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
	Insert(c ctx.Ctx, a *Activity) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Activity, error)
}

type UseCase interface {
	// Record persists the notification and publishes it to subscribers.
	// Recording is best effort: a failure is logged, never surfaced, so
	// it cannot roll back a settled operation.
	Record(c ctx.Ctx, a *Activity)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Activity, error)
}
