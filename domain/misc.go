package domain

import (
	"math/big"
	"strings"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0 || string(a) == string(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type BlockNumber uint64

type TxHash string

// Table is a mongo collection name
type Table string

const (
	TableListings        Table = "listings"
	TableAuctions        Table = "auctions"
	TableBids            Table = "bids"
	TableActivities      Table = "activities"
	TableTokenBalances   Table = "token_balances"
	TableTokenAllowances Table = "token_allowances"
	TableAssets          Table = "assets"
	TableAssetApprovals  Table = "asset_approvals"
)

// ParseAmount parses a base-10 token amount. Amounts are carried as
// decimal-integer strings in records and over the wire.
func ParseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return n, nil
}

// ParsePositiveAmount is ParseAmount restricted to amounts > 0.
func ParsePositiveAmount(s string) (*big.Int, error) {
	n, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	if n.Sign() == 0 {
		return nil, ErrZeroAmount
	}
	return n, nil
}

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}
