package orcamento

import (
	"encoding/json"

	"github.com/DrogariaAvenida/api-drogaria/internal/pessoa"
	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status possíveis de um orçamento. Itens só podem ser incluídos ou
// alterados enquanto o orçamento está em rascunho.
const (
	StatusRascunho   = "rascunho"
	StatusFinalizado = "finalizado"
	StatusCancelado  = "cancelado"
)

// Orcamento é a proposta de venda de um vendedor para um cliente,
// ambos Pessoas com o papel correspondente.
type Orcamento struct {
	gorm.Model
	ClienteID  uint            `gorm:"not null;index" json:"cliente_id"`
	Cliente    pessoa.Pessoa   `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	VendedorID uint            `gorm:"not null;index" json:"vendedor_id"`
	Vendedor   pessoa.Pessoa   `gorm:"foreignKey:VendedorID" json:"vendedor,omitempty"`
	Status     string          `gorm:"size:20;not null;default:rascunho" json:"status"`
	Itens      []ItemOrcamento `gorm:"foreignKey:OrcamentoID" json:"itens"`
}

// EmRascunho indica se o orçamento ainda aceita mutação de itens.
func (o *Orcamento) EmRascunho() bool {
	return o.Status == StatusRascunho
}

// ItemOrcamento relaciona um produto ao orçamento com quantidade, preço
// unitário capturado na inclusão e desconto percentual calculado. Mudanças
// posteriores no preço do produto não alteram itens existentes.
type ItemOrcamento struct {
	gorm.Model
	OrcamentoID   uint            `gorm:"not null;index" json:"orcamento_id"`
	ProdutoID     uint            `gorm:"not null;index" json:"produto_id"`
	Produto       produto.Produto `gorm:"foreignKey:ProdutoID" json:"produto,omitempty"`
	Quantidade    int             `gorm:"not null" json:"quantidade"`
	PrecoUnitario decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"preco_unitario"`
	Desconto      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"desconto"`
}

// PrecoTotal deriva o total do item do que está persistido:
// quantidade * preço unitário * (1 - desconto/100), em 2 casas.
func (i *ItemOrcamento) PrecoTotal() decimal.Decimal {
	bruto := i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
	fator := decimal.NewFromInt(1).Sub(i.Desconto.Div(decimal.NewFromInt(100)))
	return bruto.Mul(fator).Round(2)
}

// MarshalJSON acrescenta o preco_total derivado à serialização do item.
func (i ItemOrcamento) MarshalJSON() ([]byte, error) {
	type alias ItemOrcamento
	return json.Marshal(struct {
		alias
		PrecoTotal decimal.Decimal `json:"preco_total"`
	}{
		alias:      alias(i),
		PrecoTotal: i.PrecoTotal(),
	})
}
