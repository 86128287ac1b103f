package controller

import (
	"strconv"

	"github.com/weisyn/mintregistry/internal/core/registry/state"
	"github.com/weisyn/mintregistry/pkg/constants"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// 只读查询，不需要授权，也不写入任何状态

// OwnerOf 返回代币归属
func OwnerOf(st *state.State, tokenID uint32) (string, error) {
	owner, found, err := st.TokenOwner(tokenID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", registry.ErrTokenNotFound
	}
	return owner, nil
}

// TokenURI 返回 BaseUri + 十进制编号 + BaseExtension
func TokenURI(st *state.State, tokenID uint32) (string, error) {
	supply, found, err := st.TotalSupply()
	if err != nil {
		return "", err
	}
	if !found {
		return "", registry.ErrNotInitialized
	}
	if tokenID == 0 || tokenID > supply {
		return "", registry.ErrTokenNotFound
	}

	base, _, err := st.BaseURI()
	if err != nil {
		return "", err
	}
	ext, _, err := st.BaseExtension()
	if err != nil {
		return "", err
	}
	return base + strconv.FormatUint(uint64(tokenID), 10) + ext, nil
}

// MintedBy 返回地址累计铸造数量，从未铸造为0
func MintedBy(st *state.State, address string) (uint32, error) {
	minted, _, err := st.MintedPerWallet(address)
	return minted, err
}

// Status 返回状态快照
func Status(st *state.State) (*types.RegistryStatus, error) {
	owner, found, err := st.Owner()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, registry.ErrNotInitialized
	}

	status := &types.RegistryStatus{
		Owner:          owner,
		MaxTokens:      constants.MaxTokens,
		TokensReserved: constants.TokensReserved,
		MaxMintPerTx:   constants.MaxMintPerTx,
	}
	if status.SaleActive, _, err = st.SaleActive(); err != nil {
		return nil, err
	}
	if status.TotalSupply, _, err = st.TotalSupply(); err != nil {
		return nil, err
	}
	if status.Price, _, err = st.Price(); err != nil {
		return nil, err
	}
	if status.BaseURI, _, err = st.BaseURI(); err != nil {
		return nil, err
	}
	if status.BaseExtension, _, err = st.BaseExtension(); err != nil {
		return nil, err
	}
	return status, nil
}
