package orcamento

// CriarOrcamentoRequest cria o cabeçalho e todos os itens de uma vez.
type CriarOrcamentoRequest struct {
	ClienteID  uint          `json:"cliente_id" validate:"required"`
	VendedorID uint          `json:"vendedor_id" validate:"required,nefield=ClienteID"`
	Itens      []ItemRequest `json:"itens" validate:"required,min=1,dive"`
}

// ItemRequest inclui ou altera um item. O preço unitário nunca vem do
// cliente: é capturado do produto no momento da inclusão.
type ItemRequest struct {
	ProdutoID  uint `json:"produto_id" validate:"required"`
	Quantidade int  `json:"quantidade" validate:"required,min=1"`
}
