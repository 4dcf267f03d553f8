package assets

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// RoyaltySource 单个集合的版税查询能力
type RoyaltySource interface {
	RoyaltyInfo(collection common.Address, tokenId, salePrice *big.Int) (common.Address, *big.Int)
}

// RoyaltyRegistry 按集合地址分发版税查询的注册表
// 未注册的集合版税为零；引擎只应用查询结果，不做任何策略计算
type RoyaltyRegistry struct {
	mu      sync.RWMutex
	sources map[common.Address]RoyaltySource
}

func NewRoyaltyRegistry() *RoyaltyRegistry {
	return &RoyaltyRegistry{sources: make(map[common.Address]RoyaltySource)}
}

// Register 为集合登记版税来源
func (r *RoyaltyRegistry) Register(collection common.Address, src RoyaltySource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[collection] = src
}

// RoyaltyInfo 查询版税接收人与金额
func (r *RoyaltyRegistry) RoyaltyInfo(collection common.Address, tokenId, salePrice *big.Int) (common.Address, *big.Int) {
	r.mu.RLock()
	src, ok := r.sources[collection]
	r.mu.RUnlock()
	if !ok {
		return common.Address{}, new(big.Int)
	}
	return src.RoyaltyInfo(collection, tokenId, salePrice)
}

// FixedRoyalty 按成交价固定万分比收取的版税来源
type FixedRoyalty struct {
	Recipient common.Address
	Bps       int64
}

func (f FixedRoyalty) RoyaltyInfo(_ common.Address, _ *big.Int, salePrice *big.Int) (common.Address, *big.Int) {
	amount := new(big.Int).Div(
		new(big.Int).Mul(salePrice, big.NewInt(f.Bps)),
		big.NewInt(10000),
	)
	return f.Recipient, amount
}
