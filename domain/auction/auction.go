package auction

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
)

// Phase of the sealed-bid state machine, derived from the stored
// deadlines against a supplied time. There is no background timer:
// an operation in the wrong phase simply fails.
type Phase string

const (
	PhaseBidding Phase = "bidding"
	PhaseReveal  Phase = "reveal"
	PhaseEnded   Phase = "ended"
)

type Auction struct {
	AuctionId       string         `json:"auctionId" bson:"auctionId"`
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	BiddingEndTime  time.Time      `json:"biddingEndTime" bson:"biddingEndTime"`
	RevealEndTime   time.Time      `json:"revealEndTime" bson:"revealEndTime"`
	Finalized       bool           `json:"finalized" bson:"finalized"`

	// running top two over revealed bids; highestBid >= secondHighestBid
	HighestBidder    domain.Address `json:"highestBidder" bson:"highestBidder"`
	HighestBid       string         `json:"highestBid" bson:"highestBid"`
	SecondHighestBid string         `json:"secondHighestBid" bson:"secondHighestBid"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (a *Auction) ToId() asset.Id {
	return asset.Id{
		ChainId:         a.ChainId,
		ContractAddress: a.ContractAddress,
		TokenId:         a.TokenId,
	}
}

// PhaseAt derives the phase from the auction deadlines.
func (a *Auction) PhaseAt(t time.Time) Phase {
	if t.Before(a.BiddingEndTime) {
		return PhaseBidding
	}
	if t.Before(a.RevealEndTime) {
		return PhaseReveal
	}
	return PhaseEnded
}

// Patchable carries the fields EndAuction and RevealBid may update.
type Patchable struct {
	Finalized        *bool           `bson:"finalized,omitempty"`
	HighestBidder    *domain.Address `bson:"highestBidder,omitempty"`
	HighestBid       *string         `bson:"highestBid,omitempty"`
	SecondHighestBid *string         `bson:"secondHighestBid,omitempty"`
}

type FindAllOptions struct {
	SortBy    *string
	SortDir   *domain.SortDir
	Offset    *int32
	Limit     *int32
	ChainId   *domain.ChainId
	Erc721    *domain.Address
	Seller    *domain.Address
	Finalized *bool
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

func WithFinalized(finalized bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Finalized = &finalized
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
	// FindLive returns the non-finalized auction for the asset key, if any.
	FindLive(c ctx.Ctx, id asset.Id) (*Auction, error)
	// FindLatest returns the most recently created auction for the asset key.
	FindLatest(c ctx.Ctx, id asset.Id) (*Auction, error)
	FindByAuctionId(c ctx.Ctx, auctionId string) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	Create(c ctx.Ctx, a *Auction) error
	Patch(c ctx.Ctx, auctionId string, patchable Patchable) error
}

type UseCase interface {
	// Start opens a sealed-bid auction. The seller must own the asset and
	// have approved the marketplace operator on the registry.
	Start(c ctx.Ctx, seller domain.Address, id asset.Id, biddingDuration, revealDuration time.Duration) (*Auction, error)
	// PlaceBid escrows the deposit and records the commitment. Re-bidding
	// before the deadline replaces the hash; the new deposit must not be
	// lower than the previous one and only the difference is pulled in.
	PlaceBid(c ctx.Ctx, bidder domain.Address, id asset.Id, hashedBid string, depositAmount string) (*Bid, error)
	// Reveal opens a commitment during the reveal window and updates the
	// running top two. A first revealer keeps the winner slot on ties.
	Reveal(c ctx.Ctx, bidder domain.Address, id asset.Id, bidValue string, nonce string) (*Bid, error)
	// End finalizes the auction once the reveal window has passed: the
	// winner takes the asset at the second-highest revealed bid.
	End(c ctx.Ctx, caller domain.Address, id asset.Id) (*Auction, error)
	// WithdrawRefund pays out everything the bidder can reclaim for the
	// asset key and removes the settled bid records.
	WithdrawRefund(c ctx.Ctx, bidder domain.Address, id asset.Id) (string, error)

	Get(c ctx.Ctx, id asset.Id) (*Auction, error)
	GetBid(c ctx.Ctx, id asset.Id, bidder domain.Address) (*Bid, error)
	// Withdrawable reports what WithdrawRefund would pay out, without
	// side effects.
	Withdrawable(c ctx.Ctx, bidder domain.Address, id asset.Id) (string, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
}
