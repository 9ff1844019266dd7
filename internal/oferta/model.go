package oferta

import (
	"time"

	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"gorm.io/gorm"
)

// Oferta é a promoção "Leve X, Pague Y" de um produto. DataValidade nula
// significa oferta sem prazo.
type Oferta struct {
	gorm.Model
	ProdutoID       uint            `gorm:"not null;index" json:"produto_id"`
	Produto         produto.Produto `gorm:"foreignKey:ProdutoID" json:"produto,omitempty"`
	QuantidadeLevar int             `gorm:"not null" json:"quantidade_levar"`
	QuantidadePagar int             `gorm:"not null" json:"quantidade_pagar"`
	DataValidade    *time.Time      `json:"data_validade,omitempty"`
}
