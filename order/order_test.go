package order

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() Order {
	return Order{
		Side:     List,
		SaleKind: FixPriceForItem,
		Maker:    common.HexToAddress("0x0000000000000000000000000000000000000051"),
		Nft: Asset{
			TokenId:    big.NewInt(7),
			Collection: common.HexToAddress("0x00000000000000000000000000000000000000c1"),
			Amount:     1,
		},
		Price:    big.NewInt(100),
		Currency: NativeCurrency,
		Expiry:   0,
		Salt:     42,
	}
}

func TestHashDeterministic(t *testing.T) {
	a := sampleOrder()
	b := sampleOrder()
	require.Equal(t, Hash(a), Hash(b))
	require.NotEqual(t, KeySentinel, Hash(a))
}

func TestHashBindsEveryField(t *testing.T) {
	base := Hash(sampleOrder())

	muts := map[string]func(*Order){
		"side":       func(o *Order) { o.Side = Bid },
		"sale_kind":  func(o *Order) { o.SaleKind = FixPriceForCollection },
		"maker":      func(o *Order) { o.Maker = common.HexToAddress("0x61") },
		"token_id":   func(o *Order) { o.Nft.TokenId = big.NewInt(8) },
		"collection": func(o *Order) { o.Nft.Collection = common.HexToAddress("0xc2") },
		"amount":     func(o *Order) { o.Nft.Amount = 2 },
		"price":      func(o *Order) { o.Price = big.NewInt(101) },
		"currency":   func(o *Order) { o.Currency = common.HexToAddress("0xd1") },
		"expiry":     func(o *Order) { o.Expiry = 1 },
		"salt":       func(o *Order) { o.Salt = 43 },
	}
	for name, mutate := range muts {
		o := sampleOrder()
		mutate(&o)
		assert.NotEqual(t, base, Hash(o), "field %s not bound to key", name)
	}
}

func TestTotalPrice(t *testing.T) {
	o := sampleOrder()
	o.Nft.Amount = 3
	require.Equal(t, big.NewInt(300), o.TotalPrice())

	require.Equal(t, big.NewInt(200), o.RemainTotalPrice(1))
	require.Equal(t, big.NewInt(0), o.RemainTotalPrice(3))
	require.Equal(t, big.NewInt(0), o.RemainTotalPrice(5))
}

func TestIsExpired(t *testing.T) {
	o := sampleOrder()
	assert.False(t, o.IsExpired(1_000_000), "zero expiry never expires")

	o.Expiry = 500
	assert.False(t, o.IsExpired(499))
	assert.True(t, o.IsExpired(500))
	assert.True(t, o.IsExpired(501))
}

func TestSameAsset(t *testing.T) {
	a := sampleOrder()
	b := sampleOrder()
	b.Price = big.NewInt(999)
	b.Salt = 77
	assert.True(t, a.SameAsset(b))

	b.Nft.TokenId = big.NewInt(8)
	assert.False(t, a.SameAsset(b))
}

func TestIsNative(t *testing.T) {
	o := sampleOrder()
	assert.True(t, o.IsNative())
	o.Currency = common.HexToAddress("0xd1")
	assert.False(t, o.IsNative())
}
