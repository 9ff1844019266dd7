package oferta

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
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

// normalizarValidade reduz a validade à sua data-calendário, gravada como
// meia-noite UTC. ListarVigentes compara contra o mesmo formato.
func normalizarValidade(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	dia := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &dia
}

func (h *Handler) decodeEValida(w http.ResponseWriter, r *http.Request) (*OfertaRequest, bool) {
	var req OfertaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "oferta inválida: quantidade a pagar deve ser menor que a quantidade a levar", http.StatusUnprocessableEntity)
		return nil, false
	}
	return &req, true
}

// POST /ofertas
func (h *Handler) CreateOferta(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEValida(w, r)
	if !ok {
		return
	}

	o := Oferta{
		ProdutoID:       req.ProdutoID,
		QuantidadeLevar: req.QuantidadeLevar,
		QuantidadePagar: req.QuantidadePagar,
		DataValidade:    normalizarValidade(req.DataValidade),
	}
	if err := h.Repo.Create(&o); err != nil {
		http.Error(w, "erro ao inserir oferta", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(o)
}

// GET /ofertas
func (h *Handler) ListOfertas(w http.ResponseWriter, r *http.Request) {
	ofertas, err := h.Repo.ListAll()
	if err != nil {
		http.Error(w, "erro ao buscar ofertas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ofertas)
}

// GET /produtos/{id}/ofertas
func (h *Handler) ListOfertasDoProduto(w http.ResponseWriter, r *http.Request) {
	produtoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de produto inválido", http.StatusBadRequest)
		return
	}

	ofertas, err := h.Repo.FindByProduto(uint(produtoID))
	if err != nil {
		http.Error(w, "erro ao buscar ofertas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ofertas)
}

// GET /ofertas/{id}
func (h *Handler) GetOferta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de oferta inválido", http.StatusBadRequest)
		return
	}

	o, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "oferta não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(o)
}

// PUT /ofertas/{id}
func (h *Handler) UpdateOferta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de oferta inválido", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "oferta não encontrada", http.StatusNotFound)
		return
	}

	req, ok := h.decodeEValida(w, r)
	if !ok {
		return
	}

	existing.ProdutoID = req.ProdutoID
	// zera a associação pré-carregada para o Save não reescrever o ProdutoID
	existing.Produto = produto.Produto{}
	existing.QuantidadeLevar = req.QuantidadeLevar
	existing.QuantidadePagar = req.QuantidadePagar
	existing.DataValidade = normalizarValidade(req.DataValidade)

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "erro ao atualizar oferta", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// DELETE /ofertas/{id}
func (h *Handler) DeleteOferta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de oferta inválido", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "oferta não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar oferta", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.Delete(existing); err != nil {
		http.Error(w, "erro ao deletar oferta", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
