package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDENTE"
	OrderStatusCanceled OrderStatus = "CANCELADO"
	OrderStatusFinished OrderStatus = "FINALIZADO"
)

// Order.Price is derived: always the sum of quantity * unit price over the
// attached items. It is recomputed whenever items change, never set directly.
type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64       `gorm:"not null;index" json:"usuario_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Price     float64     `gorm:"not null" json:"preco"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"-"`
}
