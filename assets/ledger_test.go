package assets

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	weth  = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	punk  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

func TestNativeTransfer(t *testing.T) {
	l := NewLedger()
	l.MintNative(alice, big.NewInt(100))

	require.NoError(t, l.NativeTransferFrom(alice, bob, big.NewInt(40)))
	assert.Equal(t, big.NewInt(60), l.NativeBalance(alice))
	assert.Equal(t, big.NewInt(40), l.NativeBalance(bob))

	// 余额不足时整体失败, 账目不动
	require.ErrorIs(t, l.NativeTransferFrom(alice, bob, big.NewInt(61)), ErrInsufficientFunds)
	assert.Equal(t, big.NewInt(60), l.NativeBalance(alice))

	// 自转和零额为空操作
	require.NoError(t, l.NativeTransferFrom(alice, alice, big.NewInt(1000)))
	require.NoError(t, l.NativeTransferFrom(alice, bob, big.NewInt(0)))
	assert.Equal(t, big.NewInt(60), l.NativeBalance(alice))
}

func TestTokenTransfer(t *testing.T) {
	l := NewLedger()
	l.MintToken(weth, alice, big.NewInt(100))

	require.NoError(t, l.TokenTransferFrom(weth, alice, bob, big.NewInt(30)))
	assert.Equal(t, big.NewInt(70), l.TokenBalance(weth, alice))
	assert.Equal(t, big.NewInt(30), l.TokenBalance(weth, bob))

	require.ErrorIs(t, l.TokenTransferFrom(weth, bob, alice, big.NewInt(31)), ErrInsufficientFunds)
	require.ErrorIs(t, l.TokenTransferFrom(punk, alice, bob, big.NewInt(1)), ErrInsufficientFunds)
}

func TestItemTransfer(t *testing.T) {
	l := NewLedger()
	l.MintItem(punk, alice, big.NewInt(7))
	assert.Equal(t, alice, l.ItemOwner(punk, big.NewInt(7)))

	// 非持有人发起划转被拒
	require.ErrorIs(t, l.ItemTransferFrom(punk, bob, alice, big.NewInt(7)), ErrNotItemOwner)
	require.ErrorIs(t, l.ItemTransferFrom(punk, alice, bob, big.NewInt(8)), ErrItemUnknown)

	require.NoError(t, l.ItemTransferFrom(punk, alice, bob, big.NewInt(7)))
	assert.Equal(t, bob, l.ItemOwner(punk, big.NewInt(7)))
}

func TestFixedRoyalty(t *testing.T) {
	reg := NewRoyaltyRegistry()

	// 未注册集合版税为零
	to, amount := reg.RoyaltyInfo(punk, big.NewInt(7), big.NewInt(100))
	assert.Equal(t, common.Address{}, to)
	assert.Equal(t, big.NewInt(0), amount)

	reg.Register(punk, FixedRoyalty{Recipient: alice, Bps: 500})
	to, amount = reg.RoyaltyInfo(punk, big.NewInt(7), big.NewInt(100))
	assert.Equal(t, alice, to)
	assert.Equal(t, big.NewInt(5), amount)
}
