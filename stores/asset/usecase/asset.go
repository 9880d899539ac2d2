package usecase

import (
	"time"

	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/domain/asset"
)

var timeNow = time.Now

type AssetUseCaseCfg struct {
	AssetRepo asset.Repo
}

type impl struct {
	assetRepo asset.Repo
}

func New(cfg *AssetUseCaseCfg) asset.UseCase {
	return &impl{assetRepo: cfg.AssetRepo}
}

func (im *impl) OwnerOf(c ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId domain.TokenId) (domain.Address, error) {
	a, err := im.assetRepo.FindOne(c, asset.Id{ChainId: chainId, ContractAddress: contract, TokenId: tokenId})
	if err != nil {
		return domain.EmptyAddress, err
	}
	return a.Owner, nil
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, chainId domain.ChainId, owner, operator domain.Address) (bool, error) {
	approval, err := im.assetRepo.FindApproval(c, chainId, owner, operator)
	if err == domain.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return approval.Approved, nil
}

func (im *impl) TransferFrom(c ctx.Ctx, chainId domain.ChainId, operator, contract domain.Address, tokenId domain.TokenId, from, to domain.Address) error {
	operator = operator.ToLower()
	from = from.ToLower()
	to = to.ToLower()
	id := asset.Id{ChainId: chainId, ContractAddress: contract, TokenId: tokenId}.LowerCased()

	a, err := im.assetRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	if !a.Owner.Equals(from) {
		return domain.ErrInvalidState
	}

	if !operator.Equals(from) {
		if approved, err := im.IsApprovedForAll(c, chainId, from, operator); err != nil {
			return err
		} else if !approved {
			return domain.ErrOperatorNotApproved
		}
	}

	if err := im.assetRepo.SetOwner(c, id, to); err != nil {
		return err
	}

	c.WithFields(log.Fields{
		"id":   id,
		"from": from,
		"to":   to,
	}).Info("asset transfer")
	return nil
}

func (im *impl) Mint(c ctx.Ctx, a *asset.Asset) error {
	if a.Owner.IsEmpty() {
		return domain.ErrBadParamInput
	}

	if _, err := im.assetRepo.FindOne(c, a.ToId()); err == nil {
		return domain.ErrInvalidState
	} else if err != domain.ErrNotFound {
		return err
	}

	a.MintedAt = timeNow().UTC()
	return im.assetRepo.Create(c, a)
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, chainId domain.ChainId, owner, operator domain.Address, approved bool) error {
	return im.assetRepo.UpsertApproval(c, &asset.Approval{
		ChainId:  chainId,
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	})
}

func (im *impl) Get(c ctx.Ctx, id asset.Id) (*asset.Asset, error) {
	return im.assetRepo.FindOne(c, id.LowerCased())
}
