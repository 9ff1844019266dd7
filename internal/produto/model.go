package produto

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Produto disponível na drogaria. O preço é o valor de tabela vigente;
// itens de orçamento guardam a própria cópia no momento da inclusão.
type Produto struct {
	gorm.Model
	Codigo    string          `gorm:"size:255;uniqueIndex;not null" json:"codigo"`
	Descricao string          `gorm:"size:255;not null" json:"descricao"`
	Preco     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"preco"`
}
