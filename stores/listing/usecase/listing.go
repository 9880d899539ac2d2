package usecase

import (
	"math/big"
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/activity"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	"github.com/sealedx/goapi/domain/listing"
	"golang.org/x/xerrors"
)

var timeNow = time.Now

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	AuctionRepo auction.Repo
	Ledger      domain.TokenLedger
	Registry    domain.AssetRegistry
	Activity    activity.UseCase
	// Operator is the marketplace account. It must be approved on the
	// registry before it can move assets, and every payment hops
	// through it so a half-done settlement can always be unwound.
	Operator domain.Address
}

type impl struct {
	listingRepo listing.Repo
	auctionRepo auction.Repo
	ledger      domain.TokenLedger
	registry    domain.AssetRegistry
	activity    activity.UseCase
	operator    domain.Address
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		auctionRepo: cfg.AuctionRepo,
		ledger:      cfg.Ledger,
		registry:    cfg.Registry,
		activity:    cfg.Activity,
		operator:    cfg.Operator.ToLower(),
	}
}

func (im *impl) List(c ctx.Ctx, seller domain.Address, id asset.Id, price string) (*listing.Listing, error) {
	id = id.LowerCased()
	seller = seller.ToLower()

	if _, err := domain.ParsePositiveAmount(price); err != nil {
		return nil, err
	}

	if err := im.requireOwnerAndApproval(c, seller, id); err != nil {
		return nil, err
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

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           price,
		CreatedAt:       timeNow().UTC(),
	}

	if err := im.listingRepo.Create(c, l); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"listing": l,
		}).Error("listingRepo.Create failed")
		return nil, err
	}

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeList,
		Account:         seller,
		Price:           price,
		Time:            timeNow().UTC(),
	})

	return l, nil
}

func (im *impl) Buy(c ctx.Ctx, buyer domain.Address, id asset.Id) (*listing.Listing, error) {
	id = id.LowerCased()
	buyer = buyer.ToLower()

	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	if buyer.Equals(l.Seller) {
		return nil, domain.ErrUnauthorized
	}

	price, ok := new(big.Int).SetString(l.Price, 10)
	if !ok {
		return nil, xerrors.Errorf("big.Int.SetString(%s) failed", l.Price)
	}

	// the listing record leaves the store before anything moves, so a
	// completed sale is never reported as failed with a live listing
	// left behind; any transfer failure below reinstates it
	if err := im.listingRepo.Remove(c, id); err != nil {
		c.WithField("err", err).Error("listingRepo.Remove failed")
		return nil, err
	}

	reinstate := func() error {
		if err := im.listingRepo.Create(c, l); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("listing reinstate failed")
			return err
		}
		return nil
	}

	// payment hops through the marketplace account so that every unwind
	// below only moves funds the marketplace already holds
	if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, buyer, im.operator, price); err != nil {
		if rbErr := reinstate(); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}

	if err := im.registry.TransferFrom(c, id.ChainId, im.operator, id.ContractAddress, id.TokenId, l.Seller, buyer); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("registry.TransferFrom failed, refunding buyer")
		if rbErr := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, buyer, price); rbErr != nil {
			c.WithField("err", rbErr).Error("refund to buyer failed")
			return nil, rbErr
		}
		if rbErr := reinstate(); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}

	if err := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, l.Seller, price); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("payout to seller failed, unwinding sale")
		if rbErr := im.registry.TransferFrom(c, id.ChainId, im.operator, id.ContractAddress, id.TokenId, buyer, l.Seller); rbErr != nil {
			c.WithField("err", rbErr).Error("asset return to seller failed")
			return nil, rbErr
		}
		if rbErr := im.ledger.TransferFrom(c, id.ChainId, im.operator, im.operator, buyer, price); rbErr != nil {
			c.WithField("err", rbErr).Error("refund to buyer failed")
			return nil, rbErr
		}
		if rbErr := reinstate(); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeBuy,
		Account:         buyer,
		To:              l.Seller,
		Price:           l.Price,
		Time:            timeNow().UTC(),
	})

	return l, nil
}

func (im *impl) Cancel(c ctx.Ctx, caller domain.Address, id asset.Id) error {
	id = id.LowerCased()
	caller = caller.ToLower()

	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	if !caller.Equals(l.Seller) {
		return domain.ErrUnauthorized
	}

	if err := im.listingRepo.Remove(c, id); err != nil {
		return err
	}

	im.activity.Record(c, &activity.Activity{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Type:            activity.TypeCancelListing,
		Account:         caller,
		Price:           l.Price,
		Time:            timeNow().UTC(),
	})

	return nil
}

func (im *impl) Get(c ctx.Ctx, id asset.Id) (*listing.Listing, error) {
	return im.listingRepo.FindOne(c, id.LowerCased())
}

func (im *impl) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	return im.listingRepo.FindAll(c, opts...)
}

func (im *impl) requireOwnerAndApproval(c ctx.Ctx, seller domain.Address, id asset.Id) error {
	owner, err := im.registry.OwnerOf(c, id.ChainId, id.ContractAddress, id.TokenId)
	if err != nil {
		return err
	}
	if !owner.Equals(seller) {
		return domain.ErrUnauthorized
	}

	approved, err := im.registry.IsApprovedForAll(c, id.ChainId, seller, im.operator)
	if err != nil {
		return err
	}
	if !approved {
		return domain.ErrOperatorNotApproved
	}
	return nil
}
