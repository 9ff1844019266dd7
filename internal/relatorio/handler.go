package relatorio

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type relatorioResponse struct {
	Linhas     []LinhaRelatorio `json:"linhas"`
	TotalGeral decimal.Decimal  `json:"total_geral"`
}

// GET /relatorios/produtos-orcados?data_inicial=2025-01-01&data_final=2025-01-31&status=rascunho&status=finalizado&produto=dipirona
func (h *Handler) ProdutosOrcados(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f Filtro
	if v := q.Get("data_inicial"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "data_inicial inválida (use AAAA-MM-DD)", http.StatusBadRequest)
			return
		}
		f.DataInicial = &t
	}
	if v := q.Get("data_final"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "data_final inválida (use AAAA-MM-DD)", http.StatusBadRequest)
			return
		}
		f.DataFinal = &t
	}
	f.Status = q["status"]
	f.Produto = q.Get("produto")

	linhas, err := h.Repo.ProdutosOrcados(f)
	if err != nil {
		http.Error(w, "erro ao gerar relatório", http.StatusInternalServerError)
		return
	}
	total, err := h.Repo.TotalGeral(f)
	if err != nil {
		http.Error(w, "erro ao totalizar relatório", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(relatorioResponse{Linhas: linhas, TotalGeral: total})
}

// GET /dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Dashboard(time.Now())
	if err != nil {
		http.Error(w, "erro ao calcular estatísticas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
