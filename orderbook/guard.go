package orderbook

import (
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// bridgeGuard 标记引擎当前是否正停在对协作方的出站调用上
// 该窗口内发起的顶层调用一律按重入拒绝: 引擎区分不了回调重入和
// 恰好撞上的并发调用，而放行前者会破坏结算的原子性
type bridgeGuard struct {
	inBridge atomic.Bool
}

func (g *bridgeGuard) enter() { g.inBridge.Store(true) }
func (g *bridgeGuard) leave() { g.inBridge.Store(false) }
func (g *bridgeGuard) busy() bool {
	return g.inBridge.Load()
}

// guardedFunds 带重入守卫的资金桥
type guardedFunds struct {
	g     *bridgeGuard
	inner FundBridge
}

func (f *guardedFunds) NativeTransferFrom(from, to common.Address, amount *big.Int) error {
	f.g.enter()
	defer f.g.leave()
	return f.inner.NativeTransferFrom(from, to, amount)
}

func (f *guardedFunds) TokenTransferFrom(token, from, to common.Address, amount *big.Int) error {
	f.g.enter()
	defer f.g.leave()
	return f.inner.TokenTransferFrom(token, from, to, amount)
}

// guardedItems 带重入守卫的 NFT 桥
type guardedItems struct {
	g     *bridgeGuard
	inner ItemBridge
}

func (it *guardedItems) ItemTransferFrom(collection, from, to common.Address, tokenId *big.Int) error {
	it.g.enter()
	defer it.g.leave()
	return it.inner.ItemTransferFrom(collection, from, to, tokenId)
}

func (it *guardedItems) ItemOwner(collection common.Address, tokenId *big.Int) common.Address {
	it.g.enter()
	defer it.g.leave()
	return it.inner.ItemOwner(collection, tokenId)
}

// guardedRoyalties 带重入守卫的版税来源
type guardedRoyalties struct {
	g     *bridgeGuard
	inner RoyaltySource
}

func (r *guardedRoyalties) RoyaltyInfo(collection common.Address, tokenId, salePrice *big.Int) (common.Address, *big.Int) {
	r.g.enter()
	defer r.g.leave()
	return r.inner.RoyaltyInfo(collection, tokenId, salePrice)
}
