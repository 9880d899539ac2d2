package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/delivery"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
	"github.com/sealedx/goapi/domain/listing"
)

type handler struct {
	listing listing.UseCase
}

func New(e *echo.Echo, listingUC listing.UseCase) {
	h := &handler{listingUC}

	gs := e.Group("/marketplace/listings")
	gs.GET("", h.getAll)
	gs.POST("", h.list)

	g := e.Group("/marketplace/listing/:chainId/:contract/:tokenId")
	g.GET("", h.get)
	g.POST("/buy", h.buy)
	g.DELETE("", h.cancel)
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

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId `json:"chainId" validate:"required"`
		Contract domain.Address `json:"contractAddress" validate:"required"`
		TokenId  domain.TokenId `json:"tokenId" validate:"required"`
		Seller   domain.Address `json:"seller" validate:"required"`
		Price    string         `json:"price" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	id := asset.Id{ChainId: p.ChainId, ContractAddress: p.Contract, TokenId: p.TokenId}

	res, err := h.listing.List(ctx, p.Seller, id, p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Buyer domain.Address `json:"buyer" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Buy(ctx, p.Buyer, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		assetParams
		Seller domain.Address `json:"seller" query:"seller" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listing.Cancel(ctx, p.Seller, p.toId()); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := assetParams{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Get(ctx, p.toId())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  *domain.ChainId `query:"chainId"`
		Contract *domain.Address `query:"contract"`
		Seller   *domain.Address `query:"seller"`
		Offset   int32           `query:"offset"`
		Limit    int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []listing.FindAllOptionsFunc{}

	if p.ChainId != nil {
		opts = append(opts, listing.WithChainId(*p.ChainId))
	}

	if p.Contract != nil {
		opts = append(opts, listing.WithContractAddress(*p.Contract))
	}

	if p.Seller != nil {
		opts = append(opts, listing.WithSeller(*p.Seller))
	}

	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, listing.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.listing.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
