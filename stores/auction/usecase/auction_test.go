package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/sealedx/goapi/base/commitment"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/ptr"
	"github.com/sealedx/goapi/domain"
	mActivity "github.com/sealedx/goapi/domain/activity/mocks"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	mAuction "github.com/sealedx/goapi/domain/auction/mocks"
	mListing "github.com/sealedx/goapi/domain/listing/mocks"
	mDomain "github.com/sealedx/goapi/domain/mocks"
)

var (
	operator = domain.Address("0x00000000000000000000000000000000000000fe")
	seller   = domain.Address("0x0000000000000000000000000000000000000001")
	alice    = domain.Address("0x000000000000000000000000000000000000000a")
	bob      = domain.Address("0x000000000000000000000000000000000000000b")
	id       = asset.Id{ChainId: 1, ContractAddress: "0x00000000000000000000000000000000000000ac", TokenId: "3"}

	biddingEnd = time.Unix(1000, 0).UTC()
	revealEnd  = time.Unix(2000, 0).UTC()

	inBidding = time.Unix(500, 0).UTC()
	inReveal  = time.Unix(1500, 0).UTC()
	afterEnd  = time.Unix(2500, 0).UTC()

	nonceA = [commitment.NonceSize]byte{0xaa}
	nonceB = [commitment.NonceSize]byte{0xbb}
)

type auctionSuite struct {
	suite.Suite

	auctionRepo *mAuction.Repo
	bidRepo     *mAuction.BidRepo
	listingRepo *mListing.Repo
	ledger      *mDomain.TokenLedger
	registry    *mDomain.AssetRegistry
	activity    *mActivity.UseCase
	im          *impl
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(auctionSuite))
}

func (s *auctionSuite) SetupTest() {
	s.auctionRepo = &mAuction.Repo{}
	s.bidRepo = &mAuction.BidRepo{}
	s.listingRepo = &mListing.Repo{}
	s.ledger = &mDomain.TokenLedger{}
	s.registry = &mDomain.AssetRegistry{}
	s.activity = &mActivity.UseCase{}
	s.im = New(&AuctionUseCaseCfg{
		AuctionRepo: s.auctionRepo,
		BidRepo:     s.bidRepo,
		ListingRepo: s.listingRepo,
		Ledger:      s.ledger,
		Registry:    s.registry,
		Activity:    s.activity,
		Operator:    operator,
	}).(*impl)
}

func (s *auctionSuite) TearDownTest() {
	timeNow = time.Now
	s.auctionRepo.AssertExpectations(s.T())
	s.bidRepo.AssertExpectations(s.T())
	s.listingRepo.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.registry.AssertExpectations(s.T())
	s.activity.AssertExpectations(s.T())
}

func (s *auctionSuite) freezeAt(t time.Time) {
	timeNow = func() time.Time { return t }
}

func (s *auctionSuite) liveAuction() *auction.Auction {
	return &auction.Auction{
		AuctionId:        "a1",
		ChainId:          id.ChainId,
		ContractAddress:  id.ContractAddress,
		TokenId:          id.TokenId,
		Seller:           seller,
		BiddingEndTime:   biddingEnd,
		RevealEndTime:    revealEnd,
		HighestBid:       "0",
		SecondHighestBid: "0",
		CreatedAt:        time.Unix(100, 0).UTC(),
	}
}

func (s *auctionSuite) TestStart() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("IsApprovedForAll", _ctx, id.ChainId, seller, operator).Return(true, nil).Once()
	s.listingRepo.On("FindOne", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.auctionRepo.On("FindLive", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.auctionRepo.On("Create", _ctx, mock.Anything).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	a, err := s.im.Start(_ctx, seller, id, 10*time.Minute, 5*time.Minute)
	s.Nil(err)
	s.NotEmpty(a.AuctionId)
	s.Equal(inBidding.Add(10*time.Minute), a.BiddingEndTime)
	s.Equal(inBidding.Add(15*time.Minute), a.RevealEndTime)
	s.Equal("0", a.HighestBid)
	s.Equal("0", a.SecondHighestBid)
}

func (s *auctionSuite) TestStartRejectsNonPositiveDurations() {
	_ctx := ctx.Background()

	_, err := s.im.Start(_ctx, seller, id, 0, time.Minute)
	s.ErrorIs(err, domain.ErrBadParamInput)

	_, err = s.im.Start(_ctx, seller, id, time.Minute, -time.Second)
	s.ErrorIs(err, domain.ErrBadParamInput)
}

func (s *auctionSuite) TestPlaceBid() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	hash := commitment.Hash(big.NewInt(50), nonceA).Hex()

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, auction.BidId{AuctionId: "a1", Bidder: alice}).Return(nil, domain.ErrNotFound).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, alice, operator, big.NewInt(60)).Return(nil).Once()
	s.bidRepo.On("Create", _ctx, mock.Anything).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	b, err := s.im.PlaceBid(_ctx, alice, id, hash, "60")
	s.Nil(err)
	s.Equal("a1", b.AuctionId)
	s.Equal(hash, b.HashedBid)
	s.Equal("60", b.DepositAmount)
	s.False(b.Revealed())
}

func (s *auctionSuite) TestPlaceBidAfterDeadline() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()

	_, err := s.im.PlaceBid(_ctx, alice, id, commitment.Hash(big.NewInt(50), nonceA).Hex(), "60")
	s.ErrorIs(err, domain.ErrWrongPhase)
}

func (s *auctionSuite) TestPlaceBidBySeller() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()

	_, err := s.im.PlaceBid(_ctx, seller, id, commitment.Hash(big.NewInt(50), nonceA).Hex(), "60")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *auctionSuite) TestRebidTopsUpDeposit() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	oldHash := commitment.Hash(big.NewInt(40), nonceA).Hex()
	newHash := commitment.Hash(big.NewInt(55), nonceB).Hex()
	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	prev := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     oldHash,
		DepositAmount: "50",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(prev, nil).Once()
	// only the difference is pulled in
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, alice, operator, big.NewInt(10)).Return(nil).Once()
	s.bidRepo.On("Patch", _ctx, bidId, auction.BidPatchable{
		HashedBid:     ptr.String(newHash),
		DepositAmount: ptr.String("60"),
		UpdatedAt:     &inBidding,
	}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	b, err := s.im.PlaceBid(_ctx, alice, id, newHash, "60")
	s.Nil(err)
	s.Equal(newHash, b.HashedBid)
	s.Equal("60", b.DepositAmount)
}

func (s *auctionSuite) TestRebidCannotLowerDeposit() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	prev := &auction.Bid{AuctionId: "a1", Bidder: alice, DepositAmount: "50"}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(prev, nil).Once()

	_, err := s.im.PlaceBid(_ctx, alice, id, commitment.Hash(big.NewInt(40), nonceB).Hex(), "40")
	s.ErrorIs(err, domain.ErrDepositTooLow)
}

func (s *auctionSuite) TestReveal() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	hash := commitment.Hash(big.NewInt(50), nonceA).Hex()
	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     hash,
		DepositAmount: "60",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()
	s.bidRepo.On("Patch", _ctx, bidId, auction.BidPatchable{
		RevealedBid: ptr.String("50"),
		RevealedAt:  &inReveal,
		UpdatedAt:   &inReveal,
	}).Return(nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{
		HighestBidder:    &alice,
		HighestBid:       ptr.String("50"),
		SecondHighestBid: ptr.String("0"),
	}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.Reveal(_ctx, alice, id, "50", hexutil.Encode(nonceA[:]))
	s.Nil(err)
	s.True(res.Revealed())
	s.Equal("50", *res.RevealedBid)
}

func (s *auctionSuite) TestRevealDuringBidding() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()

	_, err := s.im.Reveal(_ctx, alice, id, "50", hexutil.Encode(nonceA[:]))
	s.ErrorIs(err, domain.ErrWrongPhase)
}

func (s *auctionSuite) TestRevealHashMismatch() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     commitment.Hash(big.NewInt(50), nonceA).Hex(),
		DepositAmount: "60",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Times(2)
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Times(2)

	// wrong value
	_, err := s.im.Reveal(_ctx, alice, id, "51", hexutil.Encode(nonceA[:]))
	s.ErrorIs(err, domain.ErrHashMismatch)

	// wrong nonce
	_, err = s.im.Reveal(_ctx, alice, id, "50", hexutil.Encode(nonceB[:]))
	s.ErrorIs(err, domain.ErrHashMismatch)
}

func (s *auctionSuite) TestRevealExceedsDeposit() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     commitment.Hash(big.NewInt(70), nonceA).Hex(),
		DepositAmount: "60",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()

	_, err := s.im.Reveal(_ctx, alice, id, "70", hexutil.Encode(nonceA[:]))
	s.ErrorIs(err, domain.ErrBidExceedsDeposit)
}

func (s *auctionSuite) TestRevealTwice() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     commitment.Hash(big.NewInt(50), nonceA).Hex(),
		DepositAmount: "60",
		RevealedBid:   ptr.String("50"),
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()

	_, err := s.im.Reveal(_ctx, alice, id, "50", hexutil.Encode(nonceA[:]))
	s.ErrorIs(err, domain.ErrAlreadyRevealed)
}

func (s *auctionSuite) TestRevealKeepsRunningTopTwo() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	// alice already revealed 50; bob now reveals 70 and takes the lead
	a := s.liveAuction()
	a.HighestBidder = alice
	a.HighestBid = "50"

	bidId := auction.BidId{AuctionId: "a1", Bidder: bob}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        bob,
		HashedBid:     commitment.Hash(big.NewInt(70), nonceB).Hex(),
		DepositAmount: "70",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()
	s.bidRepo.On("Patch", _ctx, bidId, mock.Anything).Return(nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{
		HighestBidder:    &bob,
		HighestBid:       ptr.String("70"),
		SecondHighestBid: ptr.String("50"),
	}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	_, err := s.im.Reveal(_ctx, bob, id, "70", hexutil.Encode(nonceB[:]))
	s.Nil(err)
	s.Equal(bob, a.HighestBidder)
	s.Equal("70", a.HighestBid)
	s.Equal("50", a.SecondHighestBid)
}

func (s *auctionSuite) TestTieKeepsFirstRevealer() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	// bob matches alice's 50; alice keeps the winner slot and the tie
	// raises the clearing price to 50
	a := s.liveAuction()
	a.HighestBidder = alice
	a.HighestBid = "50"

	bidId := auction.BidId{AuctionId: "a1", Bidder: bob}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        bob,
		HashedBid:     commitment.Hash(big.NewInt(50), nonceB).Hex(),
		DepositAmount: "50",
	}

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()
	s.bidRepo.On("Patch", _ctx, bidId, mock.Anything).Return(nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{
		SecondHighestBid: ptr.String("50"),
	}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	_, err := s.im.Reveal(_ctx, bob, id, "50", hexutil.Encode(nonceB[:]))
	s.Nil(err)
	s.Equal(alice, a.HighestBidder)
	s.Equal("50", a.HighestBid)
	s.Equal("50", a.SecondHighestBid)
}

func (s *auctionSuite) TestRevealRestoresTopTwoWhenBidPatchFails() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	hash := commitment.Hash(big.NewInt(90), nonceA).Hex()
	bidId := auction.BidId{AuctionId: "a1", Bidder: alice}
	b := &auction.Bid{
		AuctionId:     "a1",
		Bidder:        alice,
		HashedBid:     hash,
		DepositAmount: "90",
	}
	prevBidder := domain.Address("")

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()
	s.bidRepo.On("FindOne", _ctx, bidId).Return(b, nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{
		HighestBidder:    &alice,
		HighestBid:       ptr.String("90"),
		SecondHighestBid: ptr.String("0"),
	}).Return(nil).Once()
	s.bidRepo.On("Patch", _ctx, bidId, mock.Anything).Return(domain.ErrInternalServerError).Once()
	// the failed reveal may not keep a bid it cannot mark revealed in the
	// top two, or a later retry would be locked out of the winner slot
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{
		HighestBidder:    &prevBidder,
		HighestBid:       ptr.String("0"),
		SecondHighestBid: ptr.String("0"),
	}).Return(nil).Once()

	_, err := s.im.Reveal(_ctx, alice, id, "90", hexutil.Encode(nonceA[:]))
	s.ErrorIs(err, domain.ErrInternalServerError)
}

func (s *auctionSuite) TestEnd() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	// alice revealed 50/60, bob revealed 70/70: bob wins at 50
	a := s.liveAuction()
	a.HighestBidder = bob
	a.HighestBid = "70"
	a.SecondHighestBid = "50"

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("TransferFrom", _ctx, id.ChainId, operator, id.ContractAddress, id.TokenId, seller, bob).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, seller, big.NewInt(50)).Return(nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{Finalized: ptr.Bool(true)}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.End(_ctx, seller, id)
	s.Nil(err)
	s.True(res.Finalized)
	s.Equal(bob, res.HighestBidder)
	s.Equal("50", res.SecondHighestBid)
}

func (s *auctionSuite) TestEndFinalizesAfterEarlierSettledRun() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	// a prior End run moved the asset and the payout but failed to
	// persist the finalized flag; the re-run must not settle again
	a := s.liveAuction()
	a.HighestBidder = bob
	a.HighestBid = "70"
	a.SecondHighestBid = "50"

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(bob, nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{Finalized: ptr.Bool(true)}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.End(_ctx, seller, id)
	s.Nil(err)
	s.True(res.Finalized)
	s.ledger.AssertNumberOfCalls(s.T(), "TransferFrom", 0)
}

func (s *auctionSuite) TestEndBeforeRevealClose() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	s.auctionRepo.On("FindLive", _ctx, id).Return(s.liveAuction(), nil).Once()

	_, err := s.im.End(_ctx, seller, id)
	s.ErrorIs(err, domain.ErrWrongPhase)
}

func (s *auctionSuite) TestEndTwice() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	final := s.liveAuction()
	final.Finalized = true

	s.auctionRepo.On("FindLive", _ctx, id).Return(nil, domain.ErrNotFound).Once()
	s.auctionRepo.On("FindLatest", _ctx, id).Return(final, nil).Once()

	_, err := s.im.End(_ctx, seller, id)
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *auctionSuite) TestEndWithoutReveals() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	a := s.liveAuction()

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{Finalized: ptr.Bool(true)}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.End(_ctx, seller, id)
	s.Nil(err)
	s.True(res.Finalized)
	s.True(res.HighestBidder.IsEmpty())
}

func (s *auctionSuite) TestSingleRevealClearsAtZero() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	a := s.liveAuction()
	a.HighestBidder = alice
	a.HighestBid = "50"

	s.auctionRepo.On("FindLive", _ctx, id).Return(a, nil).Once()
	s.registry.On("OwnerOf", _ctx, id.ChainId, id.ContractAddress, id.TokenId).Return(seller, nil).Once()
	s.registry.On("TransferFrom", _ctx, id.ChainId, operator, id.ContractAddress, id.TokenId, seller, alice).Return(nil).Once()
	// clearing price is zero, so no payment moves
	s.auctionRepo.On("Patch", _ctx, "a1", auction.Patchable{Finalized: ptr.Bool(true)}).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	res, err := s.im.End(_ctx, seller, id)
	s.Nil(err)
	s.True(res.Finalized)
}

func (s *auctionSuite) TestWithdrawRefunds() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	a := s.liveAuction()
	a.Finalized = true
	a.HighestBidder = bob
	a.HighestBid = "70"
	a.SecondHighestBid = "50"

	aliceBid := &auction.Bid{
		AuctionId: "a1", ChainId: id.ChainId, ContractAddress: id.ContractAddress, TokenId: id.TokenId,
		Bidder: alice, DepositAmount: "60", RevealedBid: ptr.String("50"),
	}
	bobBid := &auction.Bid{
		AuctionId: "a1", ChainId: id.ChainId, ContractAddress: id.ContractAddress, TokenId: id.TokenId,
		Bidder: bob, DepositAmount: "70", RevealedBid: ptr.String("70"),
	}

	// the loser reclaims the full deposit
	s.bidRepo.On("FindByBidder", _ctx, id, alice).Return([]*auction.Bid{aliceBid}, nil).Once()
	s.auctionRepo.On("FindByAuctionId", _ctx, "a1").Return(a, nil).Times(2)
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, alice, big.NewInt(60)).Return(nil).Once()
	s.bidRepo.On("Remove", _ctx, aliceBid.ToBidId()).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Times(2)

	got, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.Nil(err)
	s.Equal("60", got)

	// the winner reclaims deposit minus the clearing price
	s.bidRepo.On("FindByBidder", _ctx, id, bob).Return([]*auction.Bid{bobBid}, nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, bob, big.NewInt(20)).Return(nil).Once()
	s.bidRepo.On("Remove", _ctx, bobBid.ToBidId()).Return(nil).Once()

	got, err = s.im.WithdrawRefund(_ctx, bob, id)
	s.Nil(err)
	s.Equal("20", got)
}

func (s *auctionSuite) TestWithdrawKeepsDepositWhenSettleFails() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	a := s.liveAuction()
	a.Finalized = true
	a.HighestBidder = bob
	a.HighestBid = "70"
	a.SecondHighestBid = "50"

	b := &auction.Bid{
		AuctionId: "a1", ChainId: id.ChainId, ContractAddress: id.ContractAddress, TokenId: id.TokenId,
		Bidder: alice, DepositAmount: "60", RevealedBid: ptr.String("50"),
	}

	s.bidRepo.On("FindByBidder", _ctx, id, alice).Return([]*auction.Bid{b}, nil).Times(2)
	s.auctionRepo.On("FindByAuctionId", _ctx, "a1").Return(a, nil).Times(2)
	s.bidRepo.On("Remove", _ctx, b.ToBidId()).Return(domain.ErrInternalServerError).Once()

	// the record could not be settled, so no tokens may have moved
	_, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.ErrorIs(err, domain.ErrInternalServerError)

	s.bidRepo.On("Remove", _ctx, b.ToBidId()).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, alice, big.NewInt(60)).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	got, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.Nil(err)
	s.Equal("60", got)

	// across both calls the deposit was paid out exactly once
	s.ledger.AssertNumberOfCalls(s.T(), "TransferFrom", 1)
}

func (s *auctionSuite) TestWithdrawReinstatesBidWhenRefundFails() {
	_ctx := ctx.Background()
	s.freezeAt(afterEnd)

	a := s.liveAuction()
	a.Finalized = true

	b := &auction.Bid{
		AuctionId: "a1", ChainId: id.ChainId, ContractAddress: id.ContractAddress, TokenId: id.TokenId,
		Bidder: alice, DepositAmount: "60", RevealedBid: ptr.String("50"),
	}

	s.bidRepo.On("FindByBidder", _ctx, id, alice).Return([]*auction.Bid{b}, nil).Once()
	s.auctionRepo.On("FindByAuctionId", _ctx, "a1").Return(a, nil).Once()
	s.bidRepo.On("Remove", _ctx, b.ToBidId()).Return(nil).Once()
	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, alice, big.NewInt(60)).Return(domain.ErrInsufficientBalance).Once()
	// the failed payout puts the record back so the claim survives
	s.bidRepo.On("Create", _ctx, b).Return(nil).Once()

	_, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.ErrorIs(err, domain.ErrInsufficientBalance)
}

func (s *auctionSuite) TestWithdrawNothing() {
	_ctx := ctx.Background()
	s.freezeAt(inBidding)

	b := &auction.Bid{AuctionId: "a1", Bidder: alice, DepositAmount: "60"}

	s.bidRepo.On("FindByBidder", _ctx, id, alice).Return([]*auction.Bid{b}, nil).Once()
	s.auctionRepo.On("FindByAuctionId", _ctx, "a1").Return(s.liveAuction(), nil).Once()

	_, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.ErrorIs(err, domain.ErrNothingToWithdraw)
}

func (s *auctionSuite) TestUnrevealedDepositLeavesAfterBiddingCloses() {
	_ctx := ctx.Background()
	s.freezeAt(inReveal)

	b := &auction.Bid{
		AuctionId: "a1", ChainId: id.ChainId, ContractAddress: id.ContractAddress, TokenId: id.TokenId,
		Bidder: alice, DepositAmount: "60",
	}

	s.bidRepo.On("FindByBidder", _ctx, id, alice).Return([]*auction.Bid{b}, nil).Times(2)
	s.auctionRepo.On("FindByAuctionId", _ctx, "a1").Return(s.liveAuction(), nil).Times(2)

	w, err := s.im.Withdrawable(_ctx, alice, id)
	s.Nil(err)
	s.Equal("60", w)

	s.ledger.On("TransferFrom", _ctx, id.ChainId, operator, operator, alice, big.NewInt(60)).Return(nil).Once()
	s.bidRepo.On("Remove", _ctx, b.ToBidId()).Return(nil).Once()
	s.activity.On("Record", _ctx, mock.Anything).Once()

	got, err := s.im.WithdrawRefund(_ctx, alice, id)
	s.Nil(err)
	s.Equal("60", got)
}
