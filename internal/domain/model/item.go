package model

import "time"

type Item struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"pedido_id"`
	Flavor    string    `gorm:"type:varchar(100);not null" json:"sabor"`
	Size      string    `gorm:"type:varchar(50);not null" json:"tamanho"`
	Quantity  int64     `gorm:"not null" json:"quantidade"`
	UnitPrice float64   `gorm:"not null" json:"preco_unitario"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
