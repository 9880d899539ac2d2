package auction

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
)

// Bid is one bidder's commitment and escrowed deposit for one auction.
// The record outlives finalization and is removed when the bidder
// withdraws their refund, so late claims stay serviceable.
type Bid struct {
	AuctionId       string         `json:"auctionId" bson:"auctionId"`
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
	Bidder          domain.Address `json:"bidder" bson:"bidder"`
	HashedBid       string         `json:"hashedBid" bson:"hashedBid"`
	DepositAmount   string         `json:"depositAmount" bson:"depositAmount"`
	// RevealedBid is nil until a successful reveal and set exactly once.
	RevealedBid *string    `json:"revealedBid" bson:"revealedBid"`
	RevealedAt  *time.Time `json:"revealedAt" bson:"revealedAt"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (b *Bid) Revealed() bool {
	return b.RevealedBid != nil
}

type BidId struct {
	AuctionId string         `json:"auctionId" bson:"auctionId"`
	Bidder    domain.Address `json:"bidder" bson:"bidder"`
}

func (b *Bid) ToBidId() BidId {
	return BidId{
		AuctionId: b.AuctionId,
		Bidder:    b.Bidder,
	}
}

type BidPatchable struct {
	HashedBid     *string    `bson:"hashedBid,omitempty"`
	DepositAmount *string    `bson:"depositAmount,omitempty"`
	RevealedBid   *string    `bson:"revealedBid,omitempty"`
	RevealedAt    *time.Time `bson:"revealedAt,omitempty"`
	UpdatedAt     *time.Time `bson:"updatedAt,omitempty"`
}

type BidRepo interface {
	FindOne(c ctx.Ctx, id BidId) (*Bid, error)
	// FindByBidder returns the bidder's bids across every auction held
	// for the asset key, oldest first.
	FindByBidder(c ctx.Ctx, assetId asset.Id, bidder domain.Address) ([]*Bid, error)
	FindByAuction(c ctx.Ctx, auctionId string) ([]*Bid, error)
	Create(c ctx.Ctx, b *Bid) error
	Patch(c ctx.Ctx, id BidId, patchable BidPatchable) error
	Remove(c ctx.Ctx, id BidId) error
}
