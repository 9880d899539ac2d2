package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/delivery"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/auction"
	"github.com/sealedx/goapi/middleware"
)

type handler struct {
	auction auction.UseCase
}

func New(e *echo.Echo, auctionUC auction.UseCase) {
	h := &handler{auctionUC}

	gs := e.Group("/marketplace/auctions")
	gs.GET("", h.getAll)
	gs.POST("", h.start)

	g := e.Group("/marketplace/auction/:chainId/:contract/:tokenId")
	g.GET("", h.get)
	g.POST("/bid", h.placeBid)
	g.POST("/reveal", h.reveal)
	g.POST("/end", h.end)
	g.POST("/withdraw", h.withdraw)
	g.GET("/bid/:bidder", h.getBid, middleware.IsValidAddress("bidder"))
	g.GET("/withdrawable/:bidder", h.withdrawable, middleware.IsValidAddress("bidder"))
}

type assetParams struct {
	ChainId  domain.ChainId `param:"chainId" validate:"required"`
	Contract domain.Address `param:"contract" validate:"required"`
	TokenId  domain.TokenId `param:"tokenId" validate:"required"`
}

func (p *assetParams) toId() asset.Id {
	return asset.Id{
		ChainId:         p.ChainId,
		ContractAddress: p.Contract,
		TokenId:         p.TokenId,
	}
}

func (h *handler) start(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId        domain.ChainId `json:"chainId" validate:"required"`
		Contract       domain.Address `json:"contractAddress" validate:"required"`
		TokenId        domain.TokenId `json:"tokenId" validate:"required"`
		Seller         domain.Address `json:"seller" validate:"required"`
		BiddingSeconds int64          `json:"biddingSeconds" validate:"required,gt=0"`
		RevealSeconds  int64          `json:"revealSeconds" validate:"required,gt=0"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	id := asset.Id{ChainId: p.ChainId, ContractAddress: p.Contract, TokenId: p.TokenId}

	res, err := h.auction.Start(ctx, p.Seller, id,
		time.Duration(p.BiddingSeconds)*time.Second,
		time.Duration(p.RevealSeconds)*time.Second)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Bidder        domain.Address `json:"bidder" validate:"required"`
		HashedBid     string         `json:"hashedBid" validate:"required"`
		DepositAmount string         `json:"depositAmount" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.PlaceBid(ctx, p.Bidder, p.toId(), p.HashedBid, p.DepositAmount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) reveal(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Bidder   domain.Address `json:"bidder" validate:"required"`
		BidValue string         `json:"bidValue" validate:"required"`
		Nonce    string         `json:"nonce" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.Reveal(ctx, p.Bidder, p.toId(), p.BidValue, p.Nonce)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Caller domain.Address `json:"caller" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.End(ctx, p.Caller, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Bidder domain.Address `json:"bidder" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := h.auction.WithdrawRefund(ctx, p.Bidder, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{"amount": amount})
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := assetParams{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.Get(ctx, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Bidder domain.Address `param:"bidder" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.GetBid(ctx, p.toId(), p.Bidder)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) withdrawable(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Bidder domain.Address `param:"bidder" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := h.auction.Withdrawable(ctx, p.Bidder, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{"amount": amount})
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId   *domain.ChainId `query:"chainId"`
		Contract  *domain.Address `query:"contract"`
		Seller    *domain.Address `query:"seller"`
		Finalized *bool           `query:"finalized"`
		Offset    int32           `query:"offset"`
		Limit     int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []auction.FindAllOptionsFunc{}

	if p.ChainId != nil {
		opts = append(opts, auction.WithChainId(*p.ChainId))
	}

	if p.Contract != nil {
		opts = append(opts, auction.WithContractAddress(*p.Contract))
	}

	if p.Seller != nil {
		opts = append(opts, auction.WithSeller(*p.Seller))
	}

	if p.Finalized != nil {
		opts = append(opts, auction.WithFinalized(*p.Finalized))
	}

	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, auction.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.auction.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
