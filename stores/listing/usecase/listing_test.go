package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/domain"
	mActivity "github.com/sealedx/goapi/domain/activity/mocks"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	mAuction "github.com/sealedx/goapi/domain/auction/mocks"
	"github.com/sealedx/goapi/domain/listing"
	mListing "github.com/sealedx/goapi/domain/listing/mocks"
	mDomain "github.com/sealedx/goapi/domain/mocks"
)

const operator = domain.Address("0x00000000000000000000000000000000000000fe")

type listingSuite struct {
	suite.Suite

	listingRepo *mListing.Repo
	auctionRepo *mAuction.Repo
	ledger      *mDomain.TokenLedger
	registry    *mDomain.AssetRegistry
	activity    *mActivity.UseCase
	im          *impl
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(listingSuite))
}

func (s *listingSuite) SetupTest() {
	s.listingRepo = &mListing.Repo{}
	s.auctionRepo = &mAuction.Repo{}
	s.ledger = &mDomain.TokenLedger{}
	s.registry = &mDomain.AssetRegistry{}
	s.activity = &mActivity.UseCase{}
	s.im = New(&ListingUseCaseCfg{
		ListingRepo: s.listingRepo,
		AuctionRepo: s.auctionRepo,
		Ledger:      s.ledger,
		Registry:    s.registry,
		Activity:    s.activity,
		Operator:    operator,
	}).(*impl)
}

func (s *listingSuite) TearDownTest() {
	s.listingRepo.AssertExpectations(s.T())
	s.auctionRepo.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.registry.AssertExpectations(s.T())
	s.activity.AssertExpectations(s.T())
}

var (
	seller      = domain.Address("0x0000000000000000000000000000000000000001")
	buyer       = domain.Address("0x0000000000000000000000000000000000000002")
	id          = asset.Id{ChainId: 1, ContractAddress: "0x00000000000000000000000000000000000000ac", TokenId: "7"}
	auctionStub = auction.Auction{AuctionId: "a1", Seller: seller}
)

func (s *listingSuite) TestList() {
	_ctx := ctx.Background()

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("IsApprovedForAll", _ctx, id.ChainId, seller, operator).Return(true, nil).Once()
	s.listingRepo.On("FindOne", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.auctionRepo.On("FindLive", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.listingRepo.On("Create", _ctx, mock.Anything).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	l, err := s.im.List(_ctx, seller, id, "100")
	s.Nil(err)
	s.Equal(seller, l.Seller)
	s.Equal("100", l.Price)
}

func (s *listingSuite) TestListRejectsBadPrice() {
	_ctx := ctx.Background()

	_, err := s.im.List(_ctx, seller, id, "0")
	s.ErrorIs(err, domain.ErrZeroAmount)

	_, err = s.im.List(_ctx, seller, id, "-5")
	s.ErrorIs(err, domain.ErrInvalidNumberFormat)

	_, err = s.im.List(_ctx, seller, id, "12.5")
	s.ErrorIs(err, domain.ErrInvalidNumberFormat)
}

func (s *listingSuite) TestListRequiresOwnership() {
	_ctx := ctx.Background()

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(buyer, nil).Once()

	_, err := s.im.List(_ctx, seller, id, "100")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *listingSuite) TestListRequiresApproval() {
	_ctx := ctx.Background()

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("IsApprovedForAll", _ctx, id.ChainId, seller, operator).Return(false, nil).Once()

	_, err := s.im.List(_ctx, seller, id, "100")
	s.ErrorIs(err, domain.ErrOperatorNotApproved)
}

func (s *listingSuite) TestListRejectsDoubleListing() {
	_ctx := ctx.Background()

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("IsApprovedForAll", _ctx, id.ChainId, seller, operator).Return(true, nil).Once()
	s.listingRepo.On("FindOne", _ctx, id).Return(&listing.Listing{Seller: seller}, nil).Once()

	_, err := s.im.List(_ctx, seller, id, "100")
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *listingSuite) TestListRejectsLiveAuction() {
	_ctx := ctx.Background()

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("IsApprovedForAll", _ctx, id.ChainId, seller, operator).Return(true, nil).Once()
	s.listingRepo.On("FindOne", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.auctionRepo.On("FindLive", _ctx, id).Return(&auctionStub, nil).Once()

	_, err := s.im.List(_ctx, seller, id, "100")
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *listingSuite) TestBuy() {
	_ctx := ctx.Background()
	price := big.NewInt(100)

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           "100",
		CreatedAt:       time.Unix(123, 0).UTC(),
	}

	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, buyer, operator, price).Return(nil).Once()
	s.registry.On("TransferFrom", _ctx, id.ChainId, operator, id.ContractAddress, id.TokenId, seller, buyer).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, seller, price).Return(nil).Once()
	s.listingRepo.On("Remove", _ctx, id).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.Buy(_ctx, buyer, id)
	s.Nil(err)
	s.Equal(l, res)
}

func (s *listingSuite) TestBuyOwnListing() {
	_ctx := ctx.Background()

	l := &listing.Listing{Seller: seller, Price: "100"}
	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()

	_, err := s.im.Buy(_ctx, seller, id)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *listingSuite) TestBuyInsufficientFunds() {
	_ctx := ctx.Background()
	price := big.NewInt(100)

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           "100",
	}

	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()
	s.listingRepo.On("Remove", _ctx, id).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, buyer, operator, price).
		Return(domain.ErrInsufficientBalance).Once()
	// the failed sale puts the listing back
	s.listingRepo.On("Create", _ctx, l).Return(nil).Once()

	_, err := s.im.Buy(_ctx, buyer, id)
	s.ErrorIs(err, domain.ErrInsufficientBalance)
}

func (s *listingSuite) TestBuyAbortsWhenListingRemoveFails() {
	_ctx := ctx.Background()

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           "100",
	}

	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()
	s.listingRepo.On("Remove", _ctx, id).Return(domain.ErrInternalServerError).Once()

	_, err := s.im.Buy(_ctx, buyer, id)
	s.ErrorIs(err, domain.ErrInternalServerError)
	// the record settles before anything moves
	s.ledger.AssertNumberOfCalls(s.T(), "TransferFrom", 0)
	s.registry.AssertNumberOfCalls(s.T(), "TransferFrom", 0)
}

func (s *listingSuite) TestBuyUnwindsOnAssetTransferFailure() {
	_ctx := ctx.Background()
	price := big.NewInt(100)

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           "100",
	}

	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()
	s.listingRepo.On("Remove", _ctx, id).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, buyer, operator, price).Return(nil).Once()
	s.registry.On("TransferFrom", _ctx, id.ChainId, operator, id.ContractAddress, id.TokenId, seller, buyer).
		Return(domain.ErrOperatorNotApproved).Once()
	// buyer is made whole again and the listing comes back
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, buyer, price).Return(nil).Once()
	s.listingRepo.On("Create", _ctx, l).Return(nil).Once()

	_, err := s.im.Buy(_ctx, buyer, id)
	s.ErrorIs(err, domain.ErrOperatorNotApproved)
}

func (s *listingSuite) TestCancel() {
	_ctx := ctx.Background()

	l := &listing.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           "100",
	}

	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()
	s.listingRepo.On("Remove", _ctx, id).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	s.Nil(s.im.Cancel(_ctx, seller, id))
}

func (s *listingSuite) TestCancelByStranger() {
	_ctx := ctx.Background()

	l := &listing.Listing{Seller: seller, Price: "100"}
	s.listingRepo.On("FindOne", _ctx, id).Return(l, nil).Once()

	err := s.im.Cancel(_ctx, buyer, id)
	s.ErrorIs(err, domain.ErrUnauthorized)
}
