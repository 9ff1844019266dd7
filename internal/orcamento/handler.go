package orcamento

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DrogariaAvenida/api-drogaria/internal/oferta"
	"github.com/DrogariaAvenida/api-drogaria/internal/pessoa"
	"github.com/DrogariaAvenida/api-drogaria/internal/pricing"
	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler encapsula DB e repositories
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Pessoas  pessoa.Repository
	validate *validator.Validate
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Pessoas:  pessoa.NewRepository(),
		validate: validator.New(),
	}
}

// precificar captura o preço do produto e calcula o desconto do item com as
// ofertas vigentes em ref. É o único caminho de precificação: tanto a
// criação em lote quanto a edição de item passam por aqui.
func (h *Handler) precificar(db *gorm.DB, produtoID uint, quantidade int, ref time.Time) (decimal.Decimal, pricing.Resultado, error) {
	prod, err := produto.NewRepository(db).FindByID(produtoID)
	if err != nil {
		return decimal.Zero, pricing.Resultado{}, err
	}

	vigentes, err := oferta.NewRepository(db).ListarVigentes(produtoID, ref)
	if err != nil {
		return decimal.Zero, pricing.Resultado{}, err
	}

	ofertas := make([]pricing.Oferta, 0, len(vigentes))
	for _, o := range vigentes {
		ofertas = append(ofertas, pricing.Oferta{
			QuantidadeLevar: o.QuantidadeLevar,
			QuantidadePagar: o.QuantidadePagar,
		})
	}

	res, err := pricing.CalcularItem(prod.Preco, quantidade, ofertas)
	if err != nil {
		return decimal.Zero, pricing.Resultado{}, err
	}
	return prod.Preco, res, nil
}

func escreverErroPrecificacao(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "produto não encontrado", http.StatusUnprocessableEntity)
	case errors.Is(err, pricing.ErrQuantidadeInvalida):
		http.Error(w, "quantidade deve ser maior que zero", http.StatusUnprocessableEntity)
	case errors.Is(err, pricing.ErrOfertaInvalida):
		http.Error(w, "oferta cadastrada para o produto é inválida", http.StatusUnprocessableEntity)
	default:
		http.Error(w, "erro ao calcular preço do item", http.StatusInternalServerError)
	}
}

// CriarOrcamento cria cabeçalho e itens em uma única transação: se a
// precificação de qualquer item falhar, nada é persistido.
func (h *Handler) CriarOrcamento(w http.ResponseWriter, r *http.Request) {
	var req CriarOrcamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "orçamento inválido: cliente, vendedor distinto e ao menos um item são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	cliente, err := h.Pessoas.BuscarPorID(h.DB, req.ClienteID)
	if err != nil || !cliente.EhCliente {
		http.Error(w, "o ID do cliente não corresponde a uma pessoa marcada como cliente", http.StatusUnprocessableEntity)
		return
	}
	vendedor, err := h.Pessoas.BuscarPorID(h.DB, req.VendedorID)
	if err != nil || !vendedor.EhVendedor {
		http.Error(w, "o ID do vendedor não corresponde a uma pessoa marcada como vendedor", http.StatusUnprocessableEntity)
		return
	}

	// momento do orçamento: resolvido uma vez e usado para todos os itens
	agora := time.Now()

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "não foi possível iniciar transação", http.StatusInternalServerError)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			http.Error(w, "falha interna", http.StatusInternalServerError)
		}
	}()

	o := Orcamento{
		ClienteID:  req.ClienteID,
		VendedorID: req.VendedorID,
		Status:     StatusRascunho,
	}
	if err := h.Repo.Salvar(tx, &o); err != nil {
		_ = tx.Rollback()
		http.Error(w, "erro ao criar orçamento", http.StatusInternalServerError)
		return
	}

	for _, itemReq := range req.Itens {
		preco, res, err := h.precificar(tx, itemReq.ProdutoID, itemReq.Quantidade, agora)
		if err != nil {
			_ = tx.Rollback()
			escreverErroPrecificacao(w, err)
			return
		}

		item := ItemOrcamento{
			OrcamentoID:   o.ID,
			ProdutoID:     itemReq.ProdutoID,
			Quantidade:    itemReq.Quantidade,
			PrecoUnitario: preco,
			Desconto:      res.Desconto,
		}
		if err := h.Repo.SalvarItem(tx, &item); err != nil {
			_ = tx.Rollback()
			http.Error(w, "erro ao inserir item do orçamento", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "erro ao confirmar orçamento", http.StatusInternalServerError)
		return
	}

	criado, err := h.Repo.BuscarPorID(h.DB, o.ID)
	if err != nil {
		http.Error(w, "erro ao carregar orçamento criado", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(criado)
}

// ListarOrcamentos retorna todos os orçamentos com cliente, vendedor e itens.
func (h *Handler) ListarOrcamentos(w http.ResponseWriter, r *http.Request) {
	orcamentos, err := h.Repo.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar orçamentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orcamentos)
}

// BuscarPorID retorna um orçamento pelo ID.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	o, err := h.Repo.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "orçamento não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(o)
}

func (h *Handler) buscarRascunho(w http.ResponseWriter, r *http.Request) (*Orcamento, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return nil, false
	}

	o, err := h.Repo.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "orçamento não encontrado", http.StatusNotFound)
		return nil, false
	}
	if !o.EmRascunho() {
		http.Error(w, "orçamento não está em rascunho", http.StatusConflict)
		return nil, false
	}
	return o, true
}

// AdicionarItem inclui um item em um orçamento em rascunho, precificando
// com as ofertas vigentes no momento da inclusão.
func (h *Handler) AdicionarItem(w http.ResponseWriter, r *http.Request) {
	o, ok := h.buscarRascunho(w, r)
	if !ok {
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "item inválido: produto e quantidade positiva são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	preco, res, err := h.precificar(h.DB, req.ProdutoID, req.Quantidade, time.Now())
	if err != nil {
		escreverErroPrecificacao(w, err)
		return
	}

	item := ItemOrcamento{
		OrcamentoID:   o.ID,
		ProdutoID:     req.ProdutoID,
		Quantidade:    req.Quantidade,
		PrecoUnitario: preco,
		Desconto:      res.Desconto,
	}
	if err := h.Repo.SalvarItem(h.DB, &item); err != nil {
		http.Error(w, "erro ao inserir item do orçamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// AtualizarItem altera quantidade ou produto de um item em rascunho e
// recalcula o desconto. Trocar o produto captura um novo preço unitário;
// mudar só a quantidade mantém o preço capturado na inclusão.
func (h *Handler) AtualizarItem(w http.ResponseWriter, r *http.Request) {
	o, ok := h.buscarRascunho(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(mux.Vars(r)["iid"])
	if err != nil {
		http.Error(w, "ID de item inválido", http.StatusBadRequest)
		return
	}
	item, err := h.Repo.BuscarItem(h.DB, o.ID, uint(itemID))
	if err != nil {
		http.Error(w, "item não encontrado para esse orçamento", http.StatusNotFound)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "item inválido: produto e quantidade positiva são obrigatórios", http.StatusUnprocessableEntity)
		return
	}

	preco, res, err := h.precificar(h.DB, req.ProdutoID, req.Quantidade, time.Now())
	if err != nil {
		escreverErroPrecificacao(w, err)
		return
	}

	if req.ProdutoID != item.ProdutoID {
		item.ProdutoID = req.ProdutoID
		item.PrecoUnitario = preco
	}
	item.Quantidade = req.Quantidade
	item.Desconto = res.Desconto

	if err := h.Repo.AtualizarItem(h.DB, item); err != nil {
		http.Error(w, "erro ao atualizar item", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// RemoverItem exclui um item de um orçamento em rascunho.
func (h *Handler) RemoverItem(w http.ResponseWriter, r *http.Request) {
	o, ok := h.buscarRascunho(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(mux.Vars(r)["iid"])
	if err != nil {
		http.Error(w, "ID de item inválido", http.StatusBadRequest)
		return
	}
	item, err := h.Repo.BuscarItem(h.DB, o.ID, uint(itemID))
	if err != nil {
		http.Error(w, "item não encontrado para esse orçamento", http.StatusNotFound)
		return
	}

	if err := h.Repo.DeletarItem(h.DB, item); err != nil {
		http.Error(w, "erro ao remover item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Finalizar fecha o orçamento; os valores calculados ficam travados.
func (h *Handler) Finalizar(w http.ResponseWriter, r *http.Request) {
	h.mudarStatus(w, r, StatusFinalizado)
}

// Cancelar descarta um orçamento em rascunho.
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	h.mudarStatus(w, r, StatusCancelado)
}

func (h *Handler) mudarStatus(w http.ResponseWriter, r *http.Request, novo string) {
	o, ok := h.buscarRascunho(w, r)
	if !ok {
		return
	}

	if err := h.Repo.AtualizarStatus(h.DB, o.ID, novo); err != nil {
		http.Error(w, "erro ao atualizar orçamento", http.StatusInternalServerError)
		return
	}
	o.Status = novo
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(o)
}

// DeletarOrcamento exclui um orçamento em rascunho e seus itens.
func (h *Handler) DeletarOrcamento(w http.ResponseWriter, r *http.Request) {
	o, ok := h.buscarRascunho(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Deletar(h.DB, o.ID); err != nil {
		http.Error(w, "erro ao deletar orçamento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
