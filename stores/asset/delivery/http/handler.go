package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/delivery"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
)

type handler struct {
	asset asset.UseCase
}

func New(e *echo.Echo, assetUC asset.UseCase) {
	h := &handler{assetUC}

	e.POST("/assets", h.mint)
	e.POST("/assets/approval", h.setApproval)

	g := e.Group("/asset/:chainId/:contract/:tokenId")
	g.GET("", h.get)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId `json:"chainId" validate:"required"`
		Contract domain.Address `json:"contractAddress" validate:"required"`
		TokenId  domain.TokenId `json:"tokenId" validate:"required"`
		Owner    domain.Address `json:"owner" validate:"required"`
		TokenUri string         `json:"tokenUri"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a := &asset.Asset{
		ChainId:         p.ChainId,
		ContractAddress: p.Contract,
		TokenId:         p.TokenId,
		Owner:           p.Owner,
		TokenUri:        p.TokenUri,
	}

	if err := h.asset.Mint(ctx, a); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) setApproval(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId `json:"chainId" validate:"required"`
		Owner    domain.Address `json:"owner" validate:"required"`
		Operator domain.Address `json:"operator" validate:"required"`
		Approved bool           `json:"approved"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.asset.SetApprovalForAll(ctx, p.ChainId, p.Owner, p.Operator, p.Approved); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId `param:"chainId" validate:"required"`
		Contract domain.Address `param:"contract" validate:"required"`
		TokenId  domain.TokenId `param:"tokenId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.asset.Get(ctx, asset.Id{ChainId: p.ChainId, ContractAddress: p.Contract, TokenId: p.TokenId})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
