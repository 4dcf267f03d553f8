package marketindexer

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasySwapEngine/logger/xzap"
	"github.com/ProjectsTask/EasySwapEngine/model"
	"github.com/ProjectsTask/EasySwapEngine/order"
	"github.com/ProjectsTask/EasySwapEngine/orderbook"
	"github.com/ProjectsTask/EasySwapEngine/service/config"
)

const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Service 市场索引服务
// 消费撮合引擎的事件流，把订单/活动/持仓镜像进数据库，供查询接口使用
// 引擎内存状态是权威，表数据只做展示，消费失败不回灌引擎
type Service struct {
	ctx    context.Context
	cfg    *config.Config
	db     *gorm.DB
	chain  string
	engine *orderbook.OrderBook
}

func New(ctx context.Context, cfg *config.Config, db *gorm.DB, engine *orderbook.OrderBook) *Service {
	return &Service{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		chain:  cfg.ChainCfg.Name,
		engine: engine,
	}
}

// Start 启动后台消费循环
func (s *Service) Start() {
	threading.GoSafe(s.ConsumeEventLoop)
}

// ConsumeEventLoop 事件消费主循环
func (s *Service) ConsumeEventLoop() {
	feed := s.engine.EventFeed()
	for {
		select {
		case <-s.ctx.Done():
			xzap.WithContext(s.ctx).Info("ConsumeEventLoop stopped due to context cancellation")
			return
		case ev := <-feed:
			switch e := ev.(type) {
			case orderbook.LogMake:
				s.handleMakeEvent(e)
			case orderbook.LogCancel:
				s.handleCancelEvent(e)
			case orderbook.LogMatch:
				s.handleMatchEvent(e)
			case orderbook.LogSkipOrder:
				s.handleSkipEvent(e)
			case orderbook.LogBatchMatchInnerError:
				s.handleInnerErrorEvent(e)
			case orderbook.LogWithdraw:
				xzap.WithContext(s.ctx).Info("protocol fee swept",
					zap.String("currency", e.Currency.String()),
					zap.String("recipient", e.Recipient.String()),
					zap.String("amount", e.Amount.String()))
			}
		}
	}
}

// handleMakeEvent 处理挂单事件
func (s *Service) handleMakeEvent(ev orderbook.LogMake) {
	o := ev.Order

	// 确定订单类型 (Listing / Item Bid / Collection Bid)
	var orderType int64
	if o.Side == order.Bid {
		if o.SaleKind == order.FixPriceForCollection {
			orderType = model.CollectionBidOrder
		} else {
			orderType = model.ItemBidOrder
		}
	} else {
		orderType = model.ListingOrder
	}

	newOrder := model.Order{
		CollectionAddress: o.Nft.Collection.String(),
		MarketplaceId:     model.MarketOrderBook,
		TokenId:           o.Nft.TokenId.String(),
		OrderID:           ev.OrderKey.Hex(),
		OrderStatus:       model.OrderStatusActive,
		EventTime:         time.Now().Unix(),
		ExpireTime:        int64(o.Expiry),
		CurrencyAddress:   o.Currency.String(),
		Price:             decimal.NewFromBigInt(o.Price, 0),
		Maker:             o.Maker.String(),
		Taker:             ZeroAddress,
		QuantityRemaining: o.Nft.Amount,
		Size:              o.Nft.Amount,
		OrderType:         orderType,
		Salt:              int64(o.Salt),
	}
	if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).Clauses(clause.OnConflict{
		DoNothing: true, // 订单已存在则忽略
	}).Create(&newOrder).Error; err != nil {
		xzap.WithContext(s.ctx).Error("failed on create order",
			zap.Error(err))
	}

	var activityType int
	if o.Side == order.Bid {
		if o.SaleKind == order.FixPriceForCollection {
			activityType = model.CollectionBid
		} else {
			activityType = model.ItemBid
		}
	} else {
		activityType = model.Listing
	}

	s.insertActivity(model.Activity{
		ActivityType:      activityType,
		Maker:             o.Maker.String(),
		Taker:             ZeroAddress,
		MarketplaceID:     model.MarketOrderBook,
		CollectionAddress: o.Nft.Collection.String(),
		TokenId:           o.Nft.TokenId.String(),
		CurrencyAddress:   o.Currency.String(),
		Price:             decimal.NewFromBigInt(o.Price, 0),
		OrderID:           ev.OrderKey.Hex(),
		EventTime:         time.Now().Unix(),
	})
}

// handleMatchEvent 处理撮合成交事件
// make 为被动成交方 (resting)，take 为发起方；成交价恒为卖单价格
func (s *Service) handleMatchEvent(ev orderbook.LogMatch) {
	var owner string
	var collection string
	var tokenId string
	var sellOrderId, buyOrderId string

	if ev.MakeOrder.Side == order.Bid {
		// 挂单方是买单 -> 卖方主动吃单
		owner = strings.ToLower(ev.MakeOrder.Maker.String())
		collection = ev.TakeOrder.Nft.Collection.String()
		tokenId = ev.TakeOrder.Nft.TokenId.String()
		sellOrderId = ev.TakeOrderKey.Hex()
		buyOrderId = ev.MakeOrderKey.Hex()
	} else {
		// 挂单方是卖单 -> 买方主动吃单
		owner = strings.ToLower(ev.TakeOrder.Maker.String())
		collection = ev.MakeOrder.Nft.Collection.String()
		tokenId = ev.MakeOrder.Nft.TokenId.String()
		sellOrderId = ev.MakeOrderKey.Hex()
		buyOrderId = ev.TakeOrderKey.Hex()
	}

	buyer := owner

	// 卖单一次成满
	if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
		Where("order_id = ?", sellOrderId).
		Updates(map[string]interface{}{
			"order_status":       model.OrderStatusFilled,
			"quantity_remaining": 0,
			"taker":              buyer,
		}).Error; err != nil {
		xzap.WithContext(s.ctx).Error("failed on update sell order status",
			zap.String("order_id", sellOrderId))
		return
	}

	// 买单每次撮合消耗 1 个
	var buyOrder model.Order
	if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
		Where("order_id = ?", buyOrderId).
		First(&buyOrder).Error; err == nil {
		if buyOrder.QuantityRemaining > 1 {
			if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
				Where("order_id = ?", buyOrderId).
				Update("quantity_remaining", buyOrder.QuantityRemaining-1).Error; err != nil {
				xzap.WithContext(s.ctx).Error("failed on update order quantity_remaining",
					zap.String("order_id", buyOrderId))
				return
			}
		} else {
			if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
				Where("order_id = ?", buyOrderId).
				Updates(map[string]interface{}{
					"order_status":       model.OrderStatusFilled,
					"quantity_remaining": 0,
				}).Error; err != nil {
				xzap.WithContext(s.ctx).Error("failed on update buy order status",
					zap.String("order_id", buyOrderId))
				return
			}
		}
	}

	s.insertActivity(model.Activity{
		ActivityType:      model.Sale,
		Maker:             ev.MakeOrder.Maker.String(),
		Taker:             ev.TakeOrder.Maker.String(),
		MarketplaceID:     model.MarketOrderBook,
		CollectionAddress: collection,
		TokenId:           tokenId,
		CurrencyAddress:   ev.MakeOrder.Currency.String(),
		Price:             decimal.NewFromBigInt(ev.FillPrice, 0),
		OrderID:           sellOrderId,
		EventTime:         time.Now().Unix(),
	})

	// 更新 NFT 持有人镜像
	if err := s.db.WithContext(s.ctx).Table(model.ItemTableName(s.chain)).
		Where("collection_address = ? and token_id = ?", strings.ToLower(collection), tokenId).
		Updates(map[string]interface{}{
			"owner":       owner,
			"update_time": time.Now().Unix(),
		}).Error; err != nil {
		xzap.WithContext(s.ctx).Error("failed to update item owner",
			zap.Error(err))
	}
}

// handleCancelEvent 处理取消事件 (编辑订单的旧 Key 也走这里)
func (s *Service) handleCancelEvent(ev orderbook.LogCancel) {
	orderId := ev.OrderKey.Hex()

	if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
		Where("order_id = ?", orderId).
		Update("order_status", model.OrderStatusCancelled).Error; err != nil {
		xzap.WithContext(s.ctx).Error("failed on update order status",
			zap.String("order_id", orderId))
		return
	}

	var cancelOrder model.Order
	if err := s.db.WithContext(s.ctx).Table(model.OrderTableName(s.chain)).
		Where("order_id = ?", orderId).
		First(&cancelOrder).Error; err != nil {
		xzap.WithContext(s.ctx).Error("failed on get cancel order",
			zap.Error(err))
		return
	}

	var activityType int
	if cancelOrder.OrderType == model.ListingOrder {
		activityType = model.CancelListing
	} else if cancelOrder.OrderType == model.CollectionBidOrder {
		activityType = model.CancelCollectionBid
	} else {
		activityType = model.CancelItemBid
	}

	s.insertActivity(model.Activity{
		ActivityType:      activityType,
		Maker:             cancelOrder.Maker,
		Taker:             ZeroAddress,
		MarketplaceID:     model.MarketOrderBook,
		CollectionAddress: cancelOrder.CollectionAddress,
		TokenId:           cancelOrder.TokenId,
		CurrencyAddress:   cancelOrder.CurrencyAddress,
		Price:             cancelOrder.Price,
		OrderID:           orderId,
		EventTime:         time.Now().Unix(),
	})
}

// handleSkipEvent 处理软跳过事件, 留一条带原因的流水便于排查
func (s *Service) handleSkipEvent(ev orderbook.LogSkipOrder) {
	s.insertActivity(model.Activity{
		ActivityType:  model.SkipOrder,
		MarketplaceID: model.MarketOrderBook,
		OrderID:       ev.OrderKey.Hex(),
		Remark:        ev.Reason,
		EventTime:     time.Now().Unix(),
	})
}

// handleInnerErrorEvent 处理批量撮合中的单对失败
func (s *Service) handleInnerErrorEvent(ev orderbook.LogBatchMatchInnerError) {
	xzap.WithContext(s.ctx).Warn("batch match inner error",
		zap.Int("offset", ev.Offset),
		zap.String("msg", ev.Msg))
	s.insertActivity(model.Activity{
		ActivityType:  model.MatchInnerError,
		MarketplaceID: model.MarketOrderBook,
		Remark:        ev.Msg,
		EventTime:     time.Now().Unix(),
	})
}

func (s *Service) insertActivity(activity model.Activity) {
	if err := s.db.WithContext(s.ctx).Table(model.ActivityTableName(s.chain)).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&activity).Error; err != nil {
		xzap.WithContext(s.ctx).Warn("failed on create activity",
			zap.Error(err))
	}
}
