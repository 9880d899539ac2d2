package usecase

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/sealedx/goapi/base/commitment"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/base/ptr"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/activity"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	"github.com/sealedx/goapi/domain/listing"
)

var timeNow = time.Now

type AuctionUseCaseCfg struct {
	AuctionRepo auction.Repo
	BidRepo     auction.BidRepo
	ListingRepo listing.Repo
	Ledger      domain.TokenLedger
	Registry    domain.AssetRegistry
	Activity    activity.UseCase
	// Operator is the marketplace account holding every escrowed
	// deposit, so refunds and payouts never depend on an allowance.
	Operator domain.Address
}

type impl struct {
	auctionRepo auction.Repo
	bidRepo     auction.BidRepo
	listingRepo listing.Repo
	ledger      domain.TokenLedger
	registry    domain.AssetRegistry
	activity    activity.UseCase
	operator    domain.Address
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	return &impl{
		auctionRepo: cfg.AuctionRepo,
		bidRepo:     cfg.BidRepo,
		listingRepo: cfg.ListingRepo,
		ledger:      cfg.Ledger,
		registry:    cfg.Registry,
		activity:    cfg.Activity,
		operator:    cfg.Operator.ToLower(),
	}
}

func (im *impl) Start(c ctx.Ctx, seller domain.Address, id asset.Id, biddingDuration, revealDuration time.Duration) (*auction.Auction, error) {
	id = id.LowerCased()
	seller = seller.ToLower()

	if biddingDuration <= 0 || revealDuration <= 0 {
		return nil, domain.ErrBadParamInput
	}

	owner, err := im.registry.OwnerOf(c, id.ChainId, id.ContractAddress, id.TokenId)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(seller) {
		return nil, domain.ErrUnauthorized
	}

	if approved, err := im.registry.IsApprovedForAll(c, id.ChainId, seller, im.operator); err != nil {
		return nil, err
	} else if !approved {
		return nil, domain.ErrOperatorNotApproved
	}

	if _, err := im.listingRepo.FindOne(c, id); err == nil {
		return nil, domain.ErrInvalidState
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	if _, err := im.auctionRepo.FindLive(c, id); err == nil {
		return nil, domain.ErrInvalidState
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	auctionId, err := uuid.NewRandom()
	if err != nil {
		c.WithField("err", err).Error("failed to uuid.NewRandom")
		return nil, err
	}

	now := timeNow().UTC()
	a := &auction.Auction{
		AuctionId:        auctionId.String(),
		ChainId:          id.ChainId,
		ContractAddress:  id.ContractAddress,
		TokenId:          id.TokenId,
		Seller:           seller,
		BiddingEndTime:   now.Add(biddingDuration),
		RevealEndTime:    now.Add(biddingDuration + revealDuration),
		HighestBid:       "0",
		SecondHighestBid: "0",
		CreatedAt:        now,
	}

	if err := im.auctionRepo.Create(c, a); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"auction": a,
		}).Error("auctionRepo.Create failed")
		return nil, err
	}

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeAuctionStarted,
		Account:         seller,
		Time:            now,
	})

	return a, nil
}

func (im *impl) PlaceBid(c ctx.Ctx, bidder domain.Address, id asset.Id, hashedBid string, depositAmount string) (*auction.Bid, error) {
	id = id.LowerCased()
	bidder = bidder.ToLower()

	a, err := im.auctionRepo.FindLive(c, id)
	if err != nil {
		return nil, err
	}

	if a.PhaseAt(timeNow()) != auction.PhaseBidding {
		return nil, domain.ErrWrongPhase
	}

	if bidder.Equals(a.Seller) {
		return nil, domain.ErrUnauthorized
	}

	deposit, err := domain.ParsePositiveAmount(depositAmount)
	if err != nil {
		return nil, err
	}

	if raw, err := hexutil.Decode(hashedBid); err != nil || len(raw) != common.HashLength {
		return nil, domain.ErrBadParamInput
	}

	now := timeNow().UTC()
	bidId := auction.BidId{AuctionId: a.AuctionId, Bidder: bidder}

	prev, err := im.bidRepo.FindOne(c, bidId)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}

	if prev != nil {
		// re-bid before the deadline replaces the commitment; the escrow
		// only grows, so the previous deposit keeps backing the new hash
		if prev.Revealed() {
			return nil, domain.ErrAlreadyRevealed
		}

		prevDeposit, err := domain.ParseAmount(prev.DepositAmount)
		if err != nil {
			c.WithField("deposit", prev.DepositAmount).Error("stored deposit is not a number")
			return nil, domain.ErrInternalServerError
		}

		if deposit.Cmp(prevDeposit) < 0 {
			return nil, domain.ErrDepositTooLow
		}

		delta := new(big.Int).Sub(deposit, prevDeposit)
		if delta.Sign() > 0 {
			if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, bidder, im.operator, delta); err != nil {
				return nil, err
			}
		}

		if err := im.bidRepo.Patch(c, bidId, auction.BidPatchable{
			HashedBid:     ptr.String(hashedBid),
			DepositAmount: ptr.String(depositAmount),
			UpdatedAt:     &now,
		}); err != nil {
			c.WithField("err", err).Error("bidRepo.Patch failed, refunding delta")
			if delta.Sign() > 0 {
				if rbErr := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, bidder, delta); rbErr != nil {
					c.WithField("err", rbErr).Error("refund to bidder failed")
					return nil, rbErr
				}
			}
			return nil, err
		}

		prev.HashedBid = hashedBid
		prev.DepositAmount = depositAmount
		prev.UpdatedAt = now

		im.recordBidPlaced(c, id, bidder, depositAmount, now)
		return prev, nil
	}

	if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, bidder, im.operator, deposit); err != nil {
		return nil, err
	}

	b := &auction.Bid{
		AuctionId:       a.AuctionId,
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Bidder:          bidder,
		HashedBid:       hashedBid,
		DepositAmount:   depositAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := im.bidRepo.Create(c, b); err != nil {
		c.WithField("err", err).Error("bidRepo.Create failed, refunding deposit")
		if rbErr := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, bidder, deposit); rbErr != nil {
			c.WithField("err", rbErr).Error("refund to bidder failed")
			return nil, rbErr
		}
		return nil, err
	}

	im.recordBidPlaced(c, id, bidder, depositAmount, now)
	return b, nil
}

func (im *impl) Reveal(c ctx.Ctx, bidder domain.Address, id asset.Id, bidValue string, nonce string) (*auction.Bid, error) {
	id = id.LowerCased()
	bidder = bidder.ToLower()

	a, err := im.auctionRepo.FindLive(c, id)
	if err != nil {
		return nil, err
	}

	if a.PhaseAt(timeNow()) != auction.PhaseReveal {
		return nil, domain.ErrWrongPhase
	}

	bidId := auction.BidId{AuctionId: a.AuctionId, Bidder: bidder}
	b, err := im.bidRepo.FindOne(c, bidId)
	if err != nil {
		return nil, err
	}

	if b.Revealed() {
		return nil, domain.ErrAlreadyRevealed
	}

	value, err := domain.ParsePositiveAmount(bidValue)
	if err != nil {
		return nil, err
	}

	n, err := commitment.ParseNonce(nonce)
	if err != nil {
		return nil, domain.ErrInvalidNonce
	}

	if commitment.Hash(value, n) != common.HexToHash(b.HashedBid) {
		return nil, domain.ErrHashMismatch
	}

	deposit, err := domain.ParseAmount(b.DepositAmount)
	if err != nil {
		c.WithField("deposit", b.DepositAmount).Error("stored deposit is not a number")
		return nil, domain.ErrInternalServerError
	}

	if value.Cmp(deposit) > 0 {
		return nil, domain.ErrBidExceedsDeposit
	}

	now := timeNow().UTC()

	// the auction's top two moves first; if marking the bid revealed then
	// fails, the top two is restored so the bid can be revealed again
	prevBidder := a.HighestBidder
	prevTop := auction.Patchable{
		HighestBidder:    &prevBidder,
		HighestBid:       ptr.String(a.HighestBid),
		SecondHighestBid: ptr.String(a.SecondHighestBid),
	}

	bumped, err := im.bumpTopTwo(c, a, bidder, value)
	if err != nil {
		return nil, err
	}

	if err := im.bidRepo.Patch(c, bidId, auction.BidPatchable{
		RevealedBid: ptr.String(bidValue),
		RevealedAt:  &now,
		UpdatedAt:   &now,
	}); err != nil {
		c.WithField("err", err).Error("bidRepo.Patch failed, restoring top two")
		if bumped {
			if rbErr := im.auctionRepo.Patch(c, a.AuctionId, prevTop); rbErr != nil {
				c.WithField("err", rbErr).Error("top two restore failed")
				return nil, rbErr
			}
		}
		return nil, err
	}

	b.RevealedBid = ptr.String(bidValue)
	b.RevealedAt = &now
	b.UpdatedAt = now

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeBidRevealed,
		Account:         bidder,
		Price:           bidValue,
		Time:            now,
	})

	return b, nil
}

// bumpTopTwo folds one revealed value into the running top two and reports
// whether the auction record changed. Strictly greater is required to take
// the winner slot, so on equal values the earlier revealer keeps it and the
// later one only raises the price.
func (im *impl) bumpTopTwo(c ctx.Ctx, a *auction.Auction, bidder domain.Address, value *big.Int) (bool, error) {
	highest, err := domain.ParseAmount(a.HighestBid)
	if err != nil {
		c.WithField("highestBid", a.HighestBid).Error("stored highest bid is not a number")
		return false, domain.ErrInternalServerError
	}

	second, err := domain.ParseAmount(a.SecondHighestBid)
	if err != nil {
		c.WithField("secondHighestBid", a.SecondHighestBid).Error("stored second highest bid is not a number")
		return false, domain.ErrInternalServerError
	}

	patch := auction.Patchable{}
	switch {
	case value.Cmp(highest) > 0:
		patch.HighestBidder = &bidder
		patch.HighestBid = ptr.String(value.String())
		patch.SecondHighestBid = ptr.String(highest.String())
	case value.Cmp(second) > 0:
		patch.SecondHighestBid = ptr.String(value.String())
	default:
		return false, nil
	}

	if err := im.auctionRepo.Patch(c, a.AuctionId, patch); err != nil {
		return false, err
	}

	if patch.HighestBidder != nil {
		a.HighestBidder = *patch.HighestBidder
		a.HighestBid = *patch.HighestBid
	}
	if patch.SecondHighestBid != nil {
		a.SecondHighestBid = *patch.SecondHighestBid
	}
	return true, nil
}

func (im *impl) End(c ctx.Ctx, caller domain.Address, id asset.Id) (*auction.Auction, error) {
	id = id.LowerCased()
	caller = caller.ToLower()

	a, err := im.auctionRepo.FindLive(c, id)
	if err == domain.ErrNotFound {
		if latest, lErr := im.auctionRepo.FindLatest(c, id); lErr == nil && latest.Finalized {
			return nil, domain.ErrInvalidState
		}
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if a.PhaseAt(timeNow()) != auction.PhaseEnded {
		return nil, domain.ErrWrongPhase
	}

	now := timeNow().UTC()

	if a.HighestBidder.IsEmpty() {
		// nothing revealed, no sale; deposits stay claimable
		if err := im.auctionRepo.Patch(c, a.AuctionId, auction.Patchable{Finalized: ptr.Bool(true)}); err != nil {
			return nil, err
		}
		a.Finalized = true

		im.activity.Record(c, &activity.Activity{
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Type:            activity.TypeAuctionEnded,
			Account:         caller,
			Price:           "0",
			Time:            now,
		})
		return a, nil
	}

	clearing, err := domain.ParseAmount(a.SecondHighestBid)
	if err != nil {
		c.WithField("secondHighestBid", a.SecondHighestBid).Error("stored clearing price is not a number")
		return nil, domain.ErrInternalServerError
	}

	owner, err := im.registry.OwnerOf(c, id.ChainId, id.ContractAddress, id.TokenId)
	if err != nil {
		return nil, err
	}

	// a payout failure below returns the asset to the seller, so the winner
	// holding it means a prior run settled in full and only the finalized
	// flag failed to persist; the re-run skips straight to finalizing
	if !owner.Equals(a.HighestBidder) {
		// winner pays the second-highest revealed bid out of the deposit the
		// escrow already holds; the remainder stays claimable via refund
		if err := im.registry.TransferFrom(c, id.ChainId, im.operator, id.ContractAddress, id.TokenId, a.Seller, a.HighestBidder); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": a.AuctionId,
			}).Error("registry.TransferFrom failed")
			return nil, err
		}

		if clearing.Sign() > 0 {
			if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, a.Seller, clearing); err != nil {
				c.WithField("err", err).Error("payout to seller failed, unwinding asset transfer")
				if rbErr := im.registry.TransferFrom(c, id.ChainId, im.operator, id.ContractAddress, id.TokenId, a.HighestBidder, a.Seller); rbErr != nil {
					c.WithField("err", rbErr).Error("asset return to seller failed")
					return nil, rbErr
				}
				return nil, err
			}
		}
	}

	if err := im.auctionRepo.Patch(c, a.AuctionId, auction.Patchable{Finalized: ptr.Bool(true)}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
		}).Error("finalization persist failed after settlement")
		return nil, err
	}
	a.Finalized = true

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeAuctionEnded,
		Account:         a.HighestBidder,
		To:              a.Seller,
		Price:           clearing.String(),
		Time:            now,
	})

	return a, nil
}

func (im *impl) WithdrawRefund(c ctx.Ctx, bidder domain.Address, id asset.Id) (string, error) {
	id = id.LowerCased()
	bidder = bidder.ToLower()

	total, settled, err := im.collectWithdrawable(c, bidder, id)
	if err != nil {
		return "", err
	}

	if total.Sign() == 0 {
		return "", domain.ErrNothingToWithdraw
	}

	// the records leave the store before any tokens move, so a failed
	// write can never leave a paid-out deposit claimable a second time
	removed := []*auction.Bid{}
	for _, b := range settled {
		if err := im.bidRepo.Remove(c, b.ToBidId()); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"bid": b,
			}).Error("bidRepo.Remove failed, reinstating settled bids")
			im.reinstateBids(c, removed)
			return "", err
		}
		removed = append(removed, b)
	}

	if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, bidder, total); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"bidder": bidder,
			"total":  total,
		}).Error("refund transfer failed, reinstating settled bids")
		im.reinstateBids(c, removed)
		return "", err
	}

	now := timeNow().UTC()
	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeBidRefunded,
		Account:         bidder,
		Price:           total.String(),
		Time:            now,
	})

	return total.String(), nil
}

func (im *impl) reinstateBids(c ctx.Ctx, bids []*auction.Bid) {
	for _, b := range bids {
		if err := im.bidRepo.Create(c, b); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"bid": b,
			}).Error("bid reinstate failed")
		}
	}
}

func (im *impl) Withdrawable(c ctx.Ctx, bidder domain.Address, id asset.Id) (string, error) {
	total, _, err := im.collectWithdrawable(c, bidder.ToLower(), id.LowerCased())
	if err != nil {
		return "", err
	}
	return total.String(), nil
}

// collectWithdrawable sums what the bidder can reclaim across every
// auction held for the asset key and returns the bid records that are
// settled by paying it out.
func (im *impl) collectWithdrawable(c ctx.Ctx, bidder domain.Address, id asset.Id) (*big.Int, []*auction.Bid, error) {
	bids, err := im.bidRepo.FindByBidder(c, id, bidder)
	if err != nil {
		return nil, nil, err
	}

	now := timeNow()
	total := new(big.Int)
	settled := []*auction.Bid{}

	for _, b := range bids {
		a, err := im.auctionRepo.FindByAuctionId(c, b.AuctionId)
		if err != nil {
			return nil, nil, err
		}

		deposit, err := domain.ParseAmount(b.DepositAmount)
		if err != nil {
			c.WithField("deposit", b.DepositAmount).Error("stored deposit is not a number")
			return nil, nil, domain.ErrInternalServerError
		}

		switch {
		case a.Finalized && bidder.Equals(a.HighestBidder):
			clearing, err := domain.ParseAmount(a.SecondHighestBid)
			if err != nil {
				c.WithField("secondHighestBid", a.SecondHighestBid).Error("stored clearing price is not a number")
				return nil, nil, domain.ErrInternalServerError
			}
			total.Add(total, new(big.Int).Sub(deposit, clearing))
			settled = append(settled, b)
		case a.Finalized:
			total.Add(total, deposit)
			settled = append(settled, b)
		case !b.Revealed() && !now.Before(a.BiddingEndTime):
			// an unrevealed deposit may leave once bidding has closed;
			// removing the record forfeits the right to reveal
			total.Add(total, deposit)
			settled = append(settled, b)
		}
	}

	return total, settled, nil
}

func (im *impl) Get(c ctx.Ctx, id asset.Id) (*auction.Auction, error) {
	return im.auctionRepo.FindLatest(c, id.LowerCased())
}

func (im *impl) GetBid(c ctx.Ctx, id asset.Id, bidder domain.Address) (*auction.Bid, error) {
	a, err := im.auctionRepo.FindLatest(c, id.LowerCased())
	if err != nil {
		return nil, err
	}
	return im.bidRepo.FindOne(c, auction.BidId{AuctionId: a.AuctionId, Bidder: bidder.ToLower()})
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.auctionRepo.FindAll(c, opts...)
}

func (im *impl) recordBidPlaced(c ctx.Ctx, id asset.Id, bidder domain.Address, deposit string, now time.Time) {
	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeBidPlaced,
		Account:         bidder,
		Price:           deposit,
		Time:            now,
	})
}
