package model

import (
	"github.com/Laisky/errors/v2"

	"github.com/widgetly/chat-api/common/random"
)

const (
	OrderStatusPending   = 1 // don't use 0, 0 is the default value!
	OrderStatusPaid      = 2
	OrderStatusCancelled = 3
)

// Order is a purchase record tying a business user to a paid plan. Payment
// itself happens outside this service; we only track the outcome.
type Order struct {
	Id      int    `json:"id"`
	TradeNo string `json:"trade_no" gorm:"type:char(32);uniqueIndex"`
	UserId  int    `json:"user_id" gorm:"index"`
	// Amount is in the smallest currency unit (cents).
	Amount    int64  `json:"amount" gorm:"bigint"`
	Currency  string `json:"currency" gorm:"type:char(3);default:'USD'"`
	Plan      string `json:"plan" gorm:"type:varchar(32)"`
	Status    int    `json:"status" gorm:"type:int;default:1;index"`
	CreatedAt int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (o *Order) Insert() error {
	if o.TradeNo == "" {
		o.TradeNo = random.GetUUID()
	}
	if o.Status == 0 {
		o.Status = OrderStatusPending
	}
	return errors.Wrap(DB.Create(o).Error, "create order")
}

func (o *Order) UpdateStatus(status int) error {
	if o.Id == 0 {
		return errors.New("order id is empty")
	}
	err := DB.Model(o).Update("status", status).Error
	if err != nil {
		return errors.Wrapf(err, "update order %d status", o.Id)
	}
	o.Status = status
	return nil
}

func GetOrderById(id int) (*Order, error) {
	if id == 0 {
		return nil, errors.New("order id is empty")
	}
	var order Order
	if err := DB.First(&order, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get order by id %d", id)
	}
	return &order, nil
}

func GetAllOrders(userId int, startIdx int, num int) ([]*Order, error) {
	var orders []*Order
	query := DB.Order("id desc")
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Limit(num).Offset(startIdx).Find(&orders).Error
	return orders, errors.Wrap(err, "list orders")
}

func GetOrderCount(userId int) (int64, error) {
	var count int64
	query := DB.Model(&Order{})
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Count(&count).Error
	return count, errors.Wrap(err, "count orders")
}
