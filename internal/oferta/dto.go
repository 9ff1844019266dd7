package oferta

import "time"

// OfertaRequest é o payload de criação/edição. As duas direções da regra
// quantidade_pagar < quantidade_levar são declaradas, espelhando a validação
// do cadastro: uma oferta sem desconto real nunca chega ao banco.
type OfertaRequest struct {
	ProdutoID       uint       `json:"produto_id" validate:"required"`
	QuantidadeLevar int        `json:"quantidade_levar" validate:"required,min=1,gtfield=QuantidadePagar"`
	QuantidadePagar int        `json:"quantidade_pagar" validate:"required,min=1,ltfield=QuantidadeLevar"`
	DataValidade    *time.Time `json:"data_validade,omitempty"`
}
