package dao

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapEngine/model"
)

const orderStatusCachePrefix = "cache:es:order:status:"

// QueryOrderByID 按订单 Key 查询订单镜像记录
func (d *Dao) QueryOrderByID(ctx context.Context, chain string, orderID string) (*model.Order, error) {
	var o model.Order
	if err := d.DB.WithContext(ctx).Table(model.OrderTableName(chain)).
		Where("order_id = ?", orderID).
		First(&o).Error; err != nil {
		return nil, errors.Wrap(err, "failed on get order")
	}
	return &o, nil
}

// QueryUserOpenOrders 查询某地址全部活跃订单
func (d *Dao) QueryUserOpenOrders(ctx context.Context, chain string, maker string) ([]model.Order, error) {
	var orders []model.Order
	if err := d.DB.WithContext(ctx).Table(model.OrderTableName(chain)).
		Where("maker = ? and order_status = ?", maker, model.OrderStatusActive).
		Order("event_time desc").
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed on get user open orders")
	}
	return orders, nil
}

// QueryItemActivities 查询某个 NFT 的活动流水
func (d *Dao) QueryItemActivities(ctx context.Context, chain string, collection, tokenId string, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	if err := d.DB.WithContext(ctx).Table(model.ActivityTableName(chain)).
		Where("collection_address = ? and token_id = ?", collection, tokenId).
		Order("event_time desc").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, errors.Wrap(err, "failed on get item activities")
	}
	return activities, nil
}

// CacheOrderStatus 订单状态写入缓存，给高频查询减压
func (d *Dao) CacheOrderStatus(chain string, orderID string, status int64) error {
	return d.KvStore.SetInt64(orderStatusCacheKey(chain, orderID), status)
}

// GetCachedOrderStatus 读取缓存的订单状态
func (d *Dao) GetCachedOrderStatus(chain string, orderID string) (int64, error) {
	return d.KvStore.GetInt64(orderStatusCacheKey(chain, orderID))
}

func orderStatusCacheKey(chain string, orderID string) string {
	return fmt.Sprintf("%s%s:%s", orderStatusCachePrefix, chain, orderID)
}
