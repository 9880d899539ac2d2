package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/delivery"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/activity"
)

type handler struct {
	activity activity.UseCase
}

func New(e *echo.Echo, activityUC activity.UseCase) {
	h := &handler{activityUC}

	e.GET("/activities", h.getAll)
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  *domain.ChainId `query:"chainId"`
		Contract *domain.Address `query:"contract"`
		TokenId  *domain.TokenId `query:"tokenId"`
		Account  *domain.Address `query:"account"`
		Type     *activity.Type  `query:"type"`
		Offset   int32           `query:"offset"`
		Limit    int32           `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []activity.FindAllOptionsFunc{}

	if p.ChainId != nil {
		opts = append(opts, activity.WithChainId(*p.ChainId))
	}

	if p.Contract != nil && p.TokenId != nil {
		opts = append(opts, activity.WithToken(*p.Contract, *p.TokenId))
	}

	if p.Account != nil {
		opts = append(opts, activity.WithAccount(*p.Account))
	}

	if p.Type != nil {
		opts = append(opts, activity.WithType(*p.Type))
	}

	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, activity.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.activity.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
