package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/delivery"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/token"
	"github.com/sealedx/goapi/middleware"
)

type handler struct {
	token token.UseCase
}

func New(e *echo.Echo, tokenUC token.UseCase) {
	h := &handler{tokenUC}

	g := e.Group("/token/:chainId")
	g.POST("/mint", h.mint)
	g.POST("/approve", h.approve)
	g.GET("/balance/:account", h.balance, middleware.IsValidAddress("account"))
	g.GET("/allowance/:owner/:spender", h.allowance, middleware.IsValidAddress("owner"), middleware.IsValidAddress("spender"))
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId `param:"chainId" validate:"required"`
		To      domain.Address `json:"to" validate:"required"`
		Amount  string         `json:"amount" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := domain.ParsePositiveAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.token.Mint(ctx, p.ChainId, p.To, amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId `param:"chainId" validate:"required"`
		Owner   domain.Address `json:"owner" validate:"required"`
		Spender domain.Address `json:"spender" validate:"required"`
		Amount  string         `json:"amount" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := domain.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.token.Approve(ctx, p.ChainId, p.Owner, p.Spender, amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) balance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId `param:"chainId" validate:"required"`
		Account domain.Address `param:"account" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	balance, err := h.token.BalanceOf(ctx, p.ChainId, p.Account)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{"balance": balance.String()})
}

func (h *handler) allowance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId `param:"chainId" validate:"required"`
		Owner   domain.Address `param:"owner" validate:"required"`
		Spender domain.Address `param:"spender" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	allowance, err := h.token.Allowance(ctx, p.ChainId, p.Owner, p.Spender)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{"allowance": allowance.String()})
}
