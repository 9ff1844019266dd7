package produto

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	Repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{
		Repo:     repo,
		validate: validator.New(),
	}
}

type produtoRequest struct {
	Codigo    string          `json:"codigo" validate:"required"`
	Descricao string          `json:"descricao" validate:"required"`
	Preco     decimal.Decimal `json:"preco"`
}

// decodeEValida aplica as tags do DTO; o preço é decimal e fica fora do
// validator, conferido à parte.
func (h *Handler) decodeEValida(w http.ResponseWriter, r *http.Request) (*produtoRequest, bool) {
	var req produtoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "produto inválido: código e descrição são obrigatórios", http.StatusUnprocessableEntity)
		return nil, false
	}
	if req.Preco.IsNegative() {
		http.Error(w, "preço não pode ser negativo", http.StatusUnprocessableEntity)
		return nil, false
	}
	return &req, true
}

// POST /produtos
func (h *Handler) CreateProduto(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEValida(w, r)
	if !ok {
		return
	}
	if _, err := h.Repo.FindByCodigo(req.Codigo); err == nil {
		http.Error(w, "já existe produto com esse código", http.StatusUnprocessableEntity)
		return
	}

	p := Produto{
		Codigo:    req.Codigo,
		Descricao: req.Descricao,
		Preco:     req.Preco.Round(2),
	}
	if err := h.Repo.Create(&p); err != nil {
		http.Error(w, "erro ao inserir produto", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// GET /produtos
func (h *Handler) ListProdutos(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.Repo.ListAll()
	if err != nil {
		http.Error(w, "erro ao buscar produtos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(produtos)
}

// GET /produtos/{id}
func (h *Handler) GetProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de produto inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "produto não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// PUT /produtos/{id}
//
// Alterar o preço aqui nunca reprecifica itens de orçamento já criados:
// eles guardam o preço capturado na inclusão.
func (h *Handler) UpdateProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de produto inválido", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "produto não encontrado", http.StatusNotFound)
		return
	}

	req, ok := h.decodeEValida(w, r)
	if !ok {
		return
	}
	if outro, err := h.Repo.FindByCodigo(req.Codigo); err == nil && outro.ID != existing.ID {
		http.Error(w, "já existe produto com esse código", http.StatusUnprocessableEntity)
		return
	}

	existing.Codigo = req.Codigo
	existing.Descricao = req.Descricao
	existing.Preco = req.Preco.Round(2)

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "erro ao atualizar produto", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// DELETE /produtos/{id}
func (h *Handler) DeleteProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de produto inválido", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "produto não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar produto", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.Delete(existing); err != nil {
		http.Error(w, "erro ao deletar produto", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
