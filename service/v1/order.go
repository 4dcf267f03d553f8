package service

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapEngine/model"
	"github.com/ProjectsTask/EasySwapEngine/order"
	"github.com/ProjectsTask/EasySwapEngine/service/svc"
	"github.com/ProjectsTask/EasySwapEngine/types/v1"
)

// ErrBadNumber 数字参数无法解析
var ErrBadNumber = errors.New("invalid number param")

// parseBig 解析十进制大整数参数，空串视为 0
func parseBig(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Wrapf(ErrBadNumber, "value: %s", s)
	}
	return v, nil
}

// toOrder 把请求参数转换为引擎订单
func toOrder(p types.OrderParam) (order.Order, error) {
	price, err := parseBig(p.Price)
	if err != nil {
		return order.Order{}, err
	}
	tokenId, err := parseBig(p.TokenId)
	if err != nil {
		return order.Order{}, err
	}
	var currency common.Address
	if p.Currency != "" {
		currency = common.HexToAddress(p.Currency)
	}
	return order.Order{
		Side:     order.Side(p.Side),
		SaleKind: order.SaleKind(p.SaleKind),
		Maker:    common.HexToAddress(p.Maker),
		Nft: order.Asset{
			TokenId:    tokenId,
			Collection: common.HexToAddress(p.Collection),
			Amount:     p.Amount,
		},
		Price:    price,
		Currency: currency,
		Expiry:   p.Expiry,
		Salt:     p.Salt,
	}, nil
}

// toOrders 批量转换
func toOrders(params []types.OrderParam) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(params))
	for _, p := range params {
		o, err := toOrder(p)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// parseKey 解析订单 Key (0x 开头的 32 字节十六进制)
func parseKey(s string) (order.Key, error) {
	raw := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(raw) != 64 {
		return order.KeySentinel, errors.Errorf("invalid order id: %s", s)
	}
	return common.HexToHash(s), nil
}

// keysToHex Key 列表转十六进制
func keysToHex(keys []order.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Hex())
	}
	return out
}

// MakeOrders 批量创建订单
func MakeOrders(ctx context.Context, svcCtx *svc.ServerCtx, req types.MakeOrdersReq) (*types.MakeOrdersResp, error) {
	orders, err := toOrders(req.Orders)
	if err != nil {
		return nil, err
	}
	attached, err := parseBig(req.Attached)
	if err != nil {
		return nil, err
	}

	keys, err := svcCtx.Engine.MakeOrders(common.HexToAddress(req.Caller), orders, attached)
	if err != nil {
		return nil, errors.Wrap(err, "failed on make orders")
	}
	return &types.MakeOrdersResp{OrderIDs: keysToHex(keys)}, nil
}

// CancelOrders 批量取消订单
func CancelOrders(ctx context.Context, svcCtx *svc.ServerCtx, req types.CancelOrdersReq) (*types.CancelOrdersResp, error) {
	keys := make([]order.Key, 0, len(req.OrderIDs))
	for _, id := range req.OrderIDs {
		key, err := parseKey(id)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	successes, err := svcCtx.Engine.CancelOrders(common.HexToAddress(req.Caller), keys)
	if err != nil {
		return nil, errors.Wrap(err, "failed on cancel orders")
	}

	// 取消成功的订单状态写入缓存，查询接口可以少打一次引擎
	for i, ok := range successes {
		if ok {
			_ = svcCtx.Dao.CacheOrderStatus(svcCtx.C.ChainCfg.Name, keys[i].Hex(), int64(model.OrderStatusCancelled))
		}
	}
	return &types.CancelOrdersResp{Successes: successes}, nil
}

// EditOrders 批量编辑订单
func EditOrders(ctx context.Context, svcCtx *svc.ServerCtx, req types.EditOrdersReq) (*types.EditOrdersResp, error) {
	edits := make([]order.EditDetail, 0, len(req.Edits))
	for _, e := range req.Edits {
		oldKey, err := parseKey(e.OldOrderID)
		if err != nil {
			return nil, err
		}
		newOrder, err := toOrder(e.NewOrder)
		if err != nil {
			return nil, err
		}
		edits = append(edits, order.EditDetail{
			OldOrderKey: oldKey,
			NewOrder:    newOrder,
		})
	}
	attached, err := parseBig(req.Attached)
	if err != nil {
		return nil, err
	}

	keys, err := svcCtx.Engine.EditOrders(common.HexToAddress(req.Caller), edits, attached)
	if err != nil {
		return nil, errors.Wrap(err, "failed on edit orders")
	}
	return &types.EditOrdersResp{OrderIDs: keysToHex(keys)}, nil
}

// MatchOrder 单笔撮合，失败时整体回退
func MatchOrder(ctx context.Context, svcCtx *svc.ServerCtx, req types.MatchOrderReq) error {
	sell, err := toOrder(req.SellOrder)
	if err != nil {
		return err
	}
	buy, err := toOrder(req.BuyOrder)
	if err != nil {
		return err
	}
	attached, err := parseBig(req.Attached)
	if err != nil {
		return err
	}

	if err := svcCtx.Engine.MatchOrder(common.HexToAddress(req.Caller), sell, buy, attached); err != nil {
		return errors.Wrap(err, "failed on match order")
	}
	return nil
}

// MatchOrders 批量撮合，逐对隔离失败
func MatchOrders(ctx context.Context, svcCtx *svc.ServerCtx, req types.MatchOrdersReq) (*types.MatchOrdersResp, error) {
	details := make([]order.MatchDetail, 0, len(req.Details))
	for _, d := range req.Details {
		sell, err := toOrder(d.SellOrder)
		if err != nil {
			return nil, err
		}
		buy, err := toOrder(d.BuyOrder)
		if err != nil {
			return nil, err
		}
		details = append(details, order.MatchDetail{
			SellOrder: sell,
			BuyOrder:  buy,
		})
	}
	attached, err := parseBig(req.Attached)
	if err != nil {
		return nil, err
	}

	successes, err := svcCtx.Engine.MatchOrders(common.HexToAddress(req.Caller), details, attached)
	if err != nil {
		return nil, errors.Wrap(err, "failed on match orders")
	}
	return &types.MatchOrdersResp{Successes: successes}, nil
}

// GetOrderInfo 查询订单详情
// 引擎内存状态是权威，仅对已不在引擎里的订单回查数据库镜像
func GetOrderInfo(ctx context.Context, svcCtx *svc.ServerCtx, orderId string) (*types.OrderInfo, error) {
	key, err := parseKey(orderId)
	if err != nil {
		return nil, err
	}

	rec, ok := svcCtx.Engine.GetOrder(key)
	if !ok {
		return getOrderInfoFromDB(ctx, svcCtx, orderId)
	}

	o := rec.Order
	var escrowed *big.Int
	if o.IsNative() {
		escrowed = svcCtx.Engine.EscrowBalance(key)
	} else {
		escrowed = svcCtx.Engine.EscrowTokenBalance(key)
	}

	info := &types.OrderInfo{
		OrderID:    key.Hex(),
		Side:       uint8(o.Side),
		SaleKind:   uint8(o.SaleKind),
		Maker:      o.Maker.Hex(),
		Collection: o.Nft.Collection.Hex(),
		TokenId:    o.Nft.TokenId.String(),
		Amount:     o.Nft.Amount,
		Filled:     svcCtx.Engine.FilledAmount(key),
		Price:      o.Price.String(),
		Currency:   o.Currency.Hex(),
		Expiry:     o.Expiry,
		Salt:       o.Salt,
	}
	if escrowed != nil {
		info.EscrowedValue = escrowed.String()
	}
	if svcCtx.Engine.EscrowItem(key) != nil {
		info.EscrowedItemOwner = o.Maker.Hex()
	}
	return info, nil
}

// getOrderInfoFromDB 数据库镜像兜底查询
func getOrderInfoFromDB(ctx context.Context, svcCtx *svc.ServerCtx, orderId string) (*types.OrderInfo, error) {
	chain := svcCtx.C.ChainCfg.Name
	row, err := svcCtx.Dao.QueryOrderByID(ctx, chain, orderId)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query order")
	}

	// 缓存里只会有非 Active 的终态，0 表示未缓存
	status := row.OrderStatus
	if cached, err := svcCtx.Dao.GetCachedOrderStatus(chain, orderId); err == nil && cached > 0 {
		status = int(cached)
	}
	return &types.OrderInfo{
		OrderID:    row.OrderID,
		Status:     status,
		Maker:      row.Maker,
		Collection: row.CollectionAddress,
		TokenId:    row.TokenId,
		Amount:     row.Size,
		Filled:     row.Size - row.QuantityRemaining,
		Price:      row.Price.String(),
		Currency:   row.CurrencyAddress,
		Expiry:     uint64(row.ExpireTime),
		Salt:       uint64(row.Salt),
	}, nil
}

// GetUserOrders 查询用户全部未结订单 (数据库镜像)
func GetUserOrders(ctx context.Context, svcCtx *svc.ServerCtx, userAddr string) (*types.UserOrdersResp, error) {
	rows, err := svcCtx.Dao.QueryUserOpenOrders(ctx, svcCtx.C.ChainCfg.Name, strings.ToLower(userAddr))
	if err != nil {
		return nil, errors.Wrap(err, "failed on query user open orders")
	}

	orders := make([]types.OrderInfo, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, types.OrderInfo{
			OrderID:    row.OrderID,
			Status:     row.OrderStatus,
			Maker:      row.Maker,
			Collection: row.CollectionAddress,
			TokenId:    row.TokenId,
			Amount:     row.Size,
			Filled:     row.Size - row.QuantityRemaining,
			Price:      row.Price.String(),
			Currency:   row.CurrencyAddress,
			Expiry:     uint64(row.ExpireTime),
			Salt:       uint64(row.Salt),
		})
	}
	return &types.UserOrdersResp{Orders: orders}, nil
}

// GetItemActivities 查询某个 Item 的活动流水
func GetItemActivities(ctx context.Context, svcCtx *svc.ServerCtx, collection, tokenId string, limit int) (*types.ItemActivitiesResp, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := svcCtx.Dao.QueryItemActivities(ctx, svcCtx.C.ChainCfg.Name, strings.ToLower(collection), tokenId, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query item activities")
	}

	activities := make([]types.ActivityInfo, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, types.ActivityInfo{
			ActivityType: row.ActivityType,
			Maker:        row.Maker,
			Taker:        row.Taker,
			Collection:   row.CollectionAddress,
			TokenId:      row.TokenId,
			Currency:     row.CurrencyAddress,
			Price:        row.Price.String(),
			OrderID:      row.OrderID,
			EventTime:    row.EventTime,
		})
	}
	return &types.ItemActivitiesResp{Activities: activities}, nil
}

// ClaimItems 领取因交割失败滞留在托管账户里的 NFT
func ClaimItems(ctx context.Context, svcCtx *svc.ServerCtx, req types.ClaimItemsReq) (*types.ClaimItemsResp, error) {
	claimed, err := svcCtx.Engine.ClaimItems(common.HexToAddress(req.Caller))
	if err != nil {
		return nil, errors.Wrap(err, "failed on claim items")
	}
	return &types.ClaimItemsResp{Claimed: claimed}, nil
}

// Withdraw 管理员提取累计协议费
func Withdraw(ctx context.Context, svcCtx *svc.ServerCtx, req types.WithdrawReq) error {
	amount, err := parseBig(req.Amount)
	if err != nil {
		return err
	}
	caller := common.HexToAddress(req.Caller)
	recipient := common.HexToAddress(req.Recipient)

	if req.Currency == "" || common.HexToAddress(req.Currency) == order.NativeCurrency {
		if err := svcCtx.Engine.WithdrawETH(caller, recipient, amount); err != nil {
			return errors.Wrap(err, "failed on withdraw native fee")
		}
		return nil
	}
	if err := svcCtx.Engine.WithdrawToken(caller, common.HexToAddress(req.Currency), recipient, amount); err != nil {
		return errors.Wrap(err, "failed on withdraw token fee")
	}
	return nil
}
