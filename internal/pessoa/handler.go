package pessoa

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarPessoaRequest struct {
	Nome       string `json:"nome" validate:"required"`
	EhCliente  bool   `json:"eh_cliente"`
	EhVendedor bool   `json:"eh_vendedor"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	validate   *validator.Validate
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		validate:   validator.New(),
	}
}

// CriarPessoa cadastra uma nova pessoa; o código sequencial é gerado no insert.
func (h *Handler) CriarPessoa(w http.ResponseWriter, r *http.Request) {
	var req criarPessoaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}

	p := Pessoa{
		Nome:       req.Nome,
		EhCliente:  req.EhCliente,
		EhVendedor: req.EhVendedor,
	}
	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao salvar pessoa", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// ListarPessoas retorna todas as pessoas ordenadas por código.
func (h *Handler) ListarPessoas(w http.ResponseWriter, r *http.Request) {
	pessoas, err := h.Repository.ListarTodas(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar pessoas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pessoas)
}

// BuscarPorID retorna uma pessoa pelo ID.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "pessoa não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// AtualizarPessoa altera nome e papéis; o código nunca muda.
func (h *Handler) AtualizarPessoa(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "pessoa não encontrada", http.StatusNotFound)
		return
	}

	var req criarPessoaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "nome é obrigatório", http.StatusUnprocessableEntity)
		return
	}

	existente.Nome = req.Nome
	existente.EhCliente = req.EhCliente
	existente.EhVendedor = req.EhVendedor

	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar pessoa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// DeletarPessoa exclui uma pessoa sem orçamentos relacionados.
func (h *Handler) DeletarPessoa(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if _, err := h.Repository.BuscarPorID(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "pessoa não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar pessoa", http.StatusInternalServerError)
		return
	}

	possui, err := h.Repository.PossuiOrcamentos(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao verificar orçamentos", http.StatusInternalServerError)
		return
	}
	if possui {
		http.Error(w, "não é possível excluir uma pessoa com orçamentos relacionados", http.StatusConflict)
		return
	}

	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao deletar pessoa", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
