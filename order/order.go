package order

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Side 订单方向
type Side uint8

// SaleKind 销售类型
type SaleKind uint8

const (
	List Side = 0 // 卖单 (Listing)
	Bid  Side = 1 // 买单 (Offer)

	FixPriceForCollection SaleKind = 0 // 集合级别出价，接受集合内任意 Item
	FixPriceForItem       SaleKind = 1 // 针对特定 Item 的固定价格
)

// Key 订单唯一标识，由订单全部字段的确定性哈希得到
// 字段完全相同的两个订单会得到相同的 Key，以此实现去重
type Key = common.Hash

// KeySentinel 空 Key 哨兵值
// 批量接口中单个订单被跳过时返回该值，调用方据此判断是否成功
var KeySentinel = common.Hash{}

// NativeCurrency 原生币种哨兵地址 (零地址表示 ETH)
// 其它任何地址都视为 ERC20 代币合约地址
var NativeCurrency = common.Address{}

// Asset NFT 资产信息
type Asset struct {
	TokenId    *big.Int       `json:"token_id"`   // Token ID
	Collection common.Address `json:"collection"` // 集合合约地址
	Amount     int64          `json:"amount"`     // 数量 (挂单固定为 1，集合出价可以大于 1)
}

// Order 订单结构体，创建后不可变
type Order struct {
	Side     Side           `json:"side"`      // 买卖方向
	SaleKind SaleKind       `json:"sale_kind"` // 销售类型
	Maker    common.Address `json:"maker"`     // 挂单人地址
	Nft      Asset          `json:"nft"`       // NFT 资产信息
	Price    *big.Int       `json:"price"`     // 单价
	Currency common.Address `json:"currency"`  // 结算币种 (零地址为原生币)
	Expiry   uint64         `json:"expiry"`    // 过期时间戳 (0 表示永不过期)
	Salt     uint64         `json:"salt"`      // 随机盐值，仅用于 Key 去重，必须非零
}

// EditDetail 订单编辑明细：旧订单 Key + 完整的新订单
type EditDetail struct {
	OldOrderKey Key   `json:"old_order_key"`
	NewOrder    Order `json:"new_order"`
}

// MatchDetail 撮合明细：卖单 + 买单
type MatchDetail struct {
	SellOrder Order `json:"sell_order"`
	BuyOrder  Order `json:"buy_order"`
}

// Hash 计算订单 Key
// 使用 keccak256 对订单全部字段的规范编码取哈希，与字段顺序绑定
func Hash(o Order) Key {
	buf := make([]byte, 0, 170)
	buf = append(buf, byte(o.Side), byte(o.SaleKind))
	buf = append(buf, o.Maker.Bytes()...)
	buf = append(buf, common.BigToHash(bigOrZero(o.Nft.TokenId)).Bytes()...)
	buf = append(buf, o.Nft.Collection.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(o.Nft.Amount))
	buf = append(buf, common.BigToHash(bigOrZero(o.Price)).Bytes()...)
	buf = append(buf, o.Currency.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, o.Expiry)
	buf = binary.BigEndian.AppendUint64(buf, o.Salt)
	return crypto.Keccak256Hash(buf)
}

// TotalPrice 订单总金额 price * amount
func (o Order) TotalPrice() *big.Int {
	return new(big.Int).Mul(bigOrZero(o.Price), big.NewInt(o.Nft.Amount))
}

// RemainTotalPrice 剩余未成交部分的总金额 price * (amount - filled)
func (o Order) RemainTotalPrice(filled int64) *big.Int {
	remain := o.Nft.Amount - filled
	if remain < 0 {
		remain = 0
	}
	return new(big.Int).Mul(bigOrZero(o.Price), big.NewInt(remain))
}

// IsNative 是否使用原生币结算
func (o Order) IsNative() bool {
	return o.Currency == NativeCurrency
}

// IsExpired 订单是否已过期，expiry 为 0 表示永不过期
func (o Order) IsExpired(now int64) bool {
	return o.Expiry != 0 && o.Expiry <= uint64(now)
}

// SameAsset 两个订单的资产标识是否一致 (编辑订单时必须不变的部分)
func (o Order) SameAsset(other Order) bool {
	return o.Nft.Collection == other.Nft.Collection &&
		bigOrZero(o.Nft.TokenId).Cmp(bigOrZero(other.Nft.TokenId)) == 0
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
