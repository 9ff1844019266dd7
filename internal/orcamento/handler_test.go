package orcamento

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DrogariaAvenida/api-drogaria/internal/oferta"
	"github.com/DrogariaAvenida/api-drogaria/internal/pessoa"
	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// um banco em memória por teste, compartilhado entre as conexões do pool
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&pessoa.Pessoa{},
		&produto.Produto{},
		&oferta.Oferta{},
		&Orcamento{},
		&ItemOrcamento{},
	))
	return db
}

func setupRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/orcamentos", h.CriarOrcamento).Methods("POST")
	r.HandleFunc("/orcamentos", h.ListarOrcamentos).Methods("GET")
	r.HandleFunc("/orcamentos/{id}", h.BuscarPorID).Methods("GET")
	r.HandleFunc("/orcamentos/{id}", h.DeletarOrcamento).Methods("DELETE")
	r.HandleFunc("/orcamentos/{id}/finalizar", h.Finalizar).Methods("POST")
	r.HandleFunc("/orcamentos/{id}/cancelar", h.Cancelar).Methods("POST")
	r.HandleFunc("/orcamentos/{id}/itens", h.AdicionarItem).Methods("POST")
	r.HandleFunc("/orcamentos/{id}/itens/{iid}", h.AtualizarItem).Methods("PUT")
	r.HandleFunc("/orcamentos/{id}/itens/{iid}", h.RemoverItem).Methods("DELETE")
	return r
}

type cenario struct {
	db       *gorm.DB
	router   *mux.Router
	cliente  pessoa.Pessoa
	vendedor pessoa.Pessoa
	prod     produto.Produto
}

func novoCenario(t *testing.T) *cenario {
	t.Helper()

	db := setupTestDB(t)
	h := NewHandler(db)

	c := cenario{db: db, router: setupRouter(h)}

	c.cliente = pessoa.Pessoa{Nome: "Maria", EhCliente: true}
	require.NoError(t, db.Create(&c.cliente).Error)
	c.vendedor = pessoa.Pessoa{Nome: "João", EhVendedor: true}
	require.NoError(t, db.Create(&c.vendedor).Error)

	c.prod = produto.Produto{Codigo: "DIP500", Descricao: "Dipirona 500mg", Preco: decimal.RequireFromString("10.00")}
	require.NoError(t, db.Create(&c.prod).Error)

	return &c
}

func (c *cenario) request(t *testing.T, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *cenario) criarOrcamento(t *testing.T, quantidade int) Orcamento {
	t.Helper()

	rec := c.request(t, http.MethodPost, "/orcamentos", map[string]any{
		"cliente_id":  c.cliente.ID,
		"vendedor_id": c.vendedor.ID,
		"itens":       []map[string]any{{"produto_id": c.prod.ID, "quantidade": quantidade}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o Orcamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return o
}

func TestCriarOrcamento_AplicaOfertaVigente(t *testing.T) {
	c := novoCenario(t)
	require.NoError(t, c.db.Create(&oferta.Oferta{ProdutoID: c.prod.ID, QuantidadeLevar: 3, QuantidadePagar: 2}).Error)

	o := c.criarOrcamento(t, 10)

	assert.Equal(t, StatusRascunho, o.Status)
	require.Len(t, o.Itens, 1)

	item := o.Itens[0]
	assert.Equal(t, 10, item.Quantidade)
	assert.True(t, item.PrecoUnitario.Equal(decimal.RequireFromString("10.00")), "preço: %s", item.PrecoUnitario)
	assert.True(t, item.Desconto.Equal(decimal.RequireFromString("30")), "desconto: %s", item.Desconto)
	assert.True(t, item.PrecoTotal().Equal(decimal.RequireFromString("70.00")), "total: %s", item.PrecoTotal())
}

func TestCriarOrcamento_SemOfertaNaoDesconta(t *testing.T) {
	c := novoCenario(t)

	o := c.criarOrcamento(t, 2)

	require.Len(t, o.Itens, 1)
	assert.True(t, o.Itens[0].Desconto.IsZero())
	assert.True(t, o.Itens[0].PrecoTotal().Equal(decimal.RequireFromString("20.00")))
}

func TestCriarOrcamento_IgnoraOfertaVencida(t *testing.T) {
	c := novoCenario(t)
	// validades são gravadas pela data-calendário, à meia-noite UTC
	agora := time.Now()
	ontem := time.Date(agora.Year(), agora.Month(), agora.Day()-1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.db.Create(&oferta.Oferta{
		ProdutoID:       c.prod.ID,
		QuantidadeLevar: 3,
		QuantidadePagar: 2,
		DataValidade:    &ontem,
	}).Error)

	o := c.criarOrcamento(t, 10)

	require.Len(t, o.Itens, 1)
	assert.True(t, o.Itens[0].Desconto.IsZero(), "oferta vencida não pode descontar")
}

func TestCriarOrcamento_ValidaPapeis(t *testing.T) {
	c := novoCenario(t)

	// vendedor no lugar do cliente
	rec := c.request(t, http.MethodPost, "/orcamentos", map[string]any{
		"cliente_id":  c.vendedor.ID,
		"vendedor_id": c.vendedor.ID,
		"itens":       []map[string]any{{"produto_id": c.prod.ID, "quantidade": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// sem itens
	rec = c.request(t, http.MethodPost, "/orcamentos", map[string]any{
		"cliente_id":  c.cliente.ID,
		"vendedor_id": c.vendedor.ID,
		"itens":       []map[string]any{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCriarOrcamento_OfertaInvalidaDesfazTudo(t *testing.T) {
	c := novoCenario(t)
	// oferta corrompida gravada fora do fluxo de cadastro
	require.NoError(t, c.db.Exec(
		"INSERT INTO ofertas (produto_id, quantidade_levar, quantidade_pagar, created_at, updated_at) VALUES (?, 2, 5, ?, ?)",
		c.prod.ID, time.Now(), time.Now(),
	).Error)

	rec := c.request(t, http.MethodPost, "/orcamentos", map[string]any{
		"cliente_id":  c.cliente.ID,
		"vendedor_id": c.vendedor.ID,
		"itens":       []map[string]any{{"produto_id": c.prod.ID, "quantidade": 5}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// nada ficou para trás: nem cabeçalho nem itens
	var orcamentos, itens int64
	require.NoError(t, c.db.Model(&Orcamento{}).Count(&orcamentos).Error)
	require.NoError(t, c.db.Model(&ItemOrcamento{}).Count(&itens).Error)
	assert.Zero(t, orcamentos)
	assert.Zero(t, itens)
}

func TestAtualizarItem_RecalculaDesconto(t *testing.T) {
	c := novoCenario(t)
	require.NoError(t, c.db.Create(&oferta.Oferta{ProdutoID: c.prod.ID, QuantidadeLevar: 3, QuantidadePagar: 2}).Error)

	o := c.criarOrcamento(t, 2)
	require.True(t, o.Itens[0].Desconto.IsZero())

	// o preço de tabela muda depois da inclusão; o item mantém o capturado
	require.NoError(t, c.db.Model(&produto.Produto{}).
		Where("id = ?", c.prod.ID).
		Update("preco", decimal.RequireFromString("99.00")).Error)

	url := fmt.Sprintf("/orcamentos/%d/itens/%d", o.ID, o.Itens[0].ID)
	rec := c.request(t, http.MethodPut, url, map[string]any{"produto_id": c.prod.ID, "quantidade": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var item ItemOrcamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 10, item.Quantidade)
	assert.True(t, item.Desconto.Equal(decimal.RequireFromString("30")), "desconto: %s", item.Desconto)
	assert.True(t, item.PrecoUnitario.Equal(decimal.RequireFromString("10.00")),
		"preço unitário é snapshot da inclusão, obtido %s", item.PrecoUnitario)
}

func TestFinalizar_TravaMutacaoDeItens(t *testing.T) {
	c := novoCenario(t)
	o := c.criarOrcamento(t, 2)

	rec := c.request(t, http.MethodPost, fmt.Sprintf("/orcamentos/%d/finalizar", o.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.request(t, http.MethodPost, fmt.Sprintf("/orcamentos/%d/itens", o.ID),
		map[string]any{"produto_id": c.prod.ID, "quantidade": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.request(t, http.MethodDelete, fmt.Sprintf("/orcamentos/%d", o.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// finalizado não volta nem vira cancelado
	rec = c.request(t, http.MethodPost, fmt.Sprintf("/orcamentos/%d/cancelar", o.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdicionarERemoverItem(t *testing.T) {
	c := novoCenario(t)
	o := c.criarOrcamento(t, 2)

	outro := produto.Produto{Codigo: "PAR750", Descricao: "Paracetamol 750mg", Preco: decimal.RequireFromString("5.00")}
	require.NoError(t, c.db.Create(&outro).Error)

	rec := c.request(t, http.MethodPost, fmt.Sprintf("/orcamentos/%d/itens", o.ID),
		map[string]any{"produto_id": outro.ID, "quantidade": 4})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item ItemOrcamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.True(t, item.PrecoUnitario.Equal(decimal.RequireFromString("5.00")))

	rec = c.request(t, http.MethodDelete, fmt.Sprintf("/orcamentos/%d/itens/%d", o.ID, item.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.request(t, http.MethodGet, fmt.Sprintf("/orcamentos/%d", o.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var atual Orcamento
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &atual))
	assert.Len(t, atual.Itens, 1)
}
