package orderbook

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FundBridge 资金划转原语，由外部托管协作方实现
// 任何一次划转失败 (余额不足、未授权) 都会使当前操作整体失败
type FundBridge interface {
	// NativeTransferFrom 原生币划转
	NativeTransferFrom(from, to common.Address, amount *big.Int) error
	// TokenTransferFrom ERC20 代币划转
	TokenTransferFrom(token, from, to common.Address, amount *big.Int) error
}

// ItemBridge NFT 划转原语
type ItemBridge interface {
	// ItemTransferFrom 将 tokenId 从 from 划转给 to，from 非持有人时必须失败
	ItemTransferFrom(collection, from, to common.Address, tokenId *big.Int) error
	// ItemOwner 查询当前持有人，不存在时返回零地址
	ItemOwner(collection common.Address, tokenId *big.Int) common.Address
}

// RoyaltySource 版税查询能力接口，按集合维度由注册表分发
// 引擎只应用协作方报告的数值，不参与版税策略的计算
// recipient 为零地址时版税按零处理
type RoyaltySource interface {
	RoyaltyInfo(collection common.Address, tokenId, salePrice *big.Int) (recipient common.Address, amount *big.Int)
}
