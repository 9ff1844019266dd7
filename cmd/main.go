package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/DrogariaAvenida/api-drogaria/internal/auth"
	"github.com/DrogariaAvenida/api-drogaria/internal/middleware"
	"github.com/DrogariaAvenida/api-drogaria/internal/oferta"
	"github.com/DrogariaAvenida/api-drogaria/internal/orcamento"
	"github.com/DrogariaAvenida/api-drogaria/internal/pessoa"
	"github.com/DrogariaAvenida/api-drogaria/internal/produto"
	"github.com/DrogariaAvenida/api-drogaria/internal/relatorio"
	"github.com/DrogariaAvenida/api-drogaria/internal/usuario"
	"github.com/DrogariaAvenida/api-drogaria/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func envOr(chave, padrao string) string {
	if v := os.Getenv(chave); v != "" {
		return v
	}
	return padrao
}

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	porta, err := strconv.ParseUint(envOr("DB_PORT", "5432"), 10, 16)
	if err != nil {
		log.Fatal().Err(err).Msg("DB_PORT inválida")
	}

	database, err := db.ConnectDataBase(uint(porta), envOr("DB_HOST", "localhost"), envOr("DB_NAME", "drogaria"))
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	// AutoMigrate para todos os modelos
	if err := database.AutoMigrate(
		&usuario.Usuario{},
		&pessoa.Pessoa{},
		&produto.Produto{},
		&oferta.Oferta{},
		&orcamento.Orcamento{},
		&orcamento.ItemOrcamento{},
	); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate")
	}

	// Handlers
	usuarioHandler := usuario.NewHandler(database)
	pessoaHandler := pessoa.NewHandler(database)
	produtoHandler := produto.NewHandler(produto.NewRepository(database))
	ofertaHandler := oferta.NewHandler(oferta.NewRepository(database))
	orcamentoHandler := orcamento.NewHandler(database)
	relatorioHandler := relatorio.NewHandler(relatorio.NewRepository(database))

	// Router
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	// Rotas públicas
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/usuarios", usuarioHandler.CriarUsuario).Methods("POST")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	// Rotas de pessoas
	api.HandleFunc("/pessoas", pessoaHandler.CriarPessoa).Methods("POST")
	api.HandleFunc("/pessoas", pessoaHandler.ListarPessoas).Methods("GET")
	api.HandleFunc("/pessoas/{id}", pessoaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/pessoas/{id}", pessoaHandler.AtualizarPessoa).Methods("PUT")
	api.Handle("/pessoas/{id}", auth.RequireAdmin(http.HandlerFunc(pessoaHandler.DeletarPessoa))).Methods("DELETE")

	// Rotas de produtos
	api.HandleFunc("/produtos", produtoHandler.CreateProduto).Methods("POST")
	api.HandleFunc("/produtos", produtoHandler.ListProdutos).Methods("GET")
	api.HandleFunc("/produtos/{id}", produtoHandler.GetProduto).Methods("GET")
	api.HandleFunc("/produtos/{id}", produtoHandler.UpdateProduto).Methods("PUT")
	api.Handle("/produtos/{id}", auth.RequireAdmin(http.HandlerFunc(produtoHandler.DeleteProduto))).Methods("DELETE")
	api.HandleFunc("/produtos/{id}/ofertas", ofertaHandler.ListOfertasDoProduto).Methods("GET")

	// Rotas de ofertas
	api.HandleFunc("/ofertas", ofertaHandler.CreateOferta).Methods("POST")
	api.HandleFunc("/ofertas", ofertaHandler.ListOfertas).Methods("GET")
	api.HandleFunc("/ofertas/{id}", ofertaHandler.GetOferta).Methods("GET")
	api.HandleFunc("/ofertas/{id}", ofertaHandler.UpdateOferta).Methods("PUT")
	api.Handle("/ofertas/{id}", auth.RequireAdmin(http.HandlerFunc(ofertaHandler.DeleteOferta))).Methods("DELETE")

	// Rotas de orçamentos
	api.HandleFunc("/orcamentos", orcamentoHandler.CriarOrcamento).Methods("POST")
	api.HandleFunc("/orcamentos", orcamentoHandler.ListarOrcamentos).Methods("GET")
	api.HandleFunc("/orcamentos/{id}", orcamentoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/orcamentos/{id}", orcamentoHandler.DeletarOrcamento).Methods("DELETE")
	api.HandleFunc("/orcamentos/{id}/finalizar", orcamentoHandler.Finalizar).Methods("POST")
	api.HandleFunc("/orcamentos/{id}/cancelar", orcamentoHandler.Cancelar).Methods("POST")
	api.HandleFunc("/orcamentos/{id}/itens", orcamentoHandler.AdicionarItem).Methods("POST")
	api.HandleFunc("/orcamentos/{id}/itens/{iid}", orcamentoHandler.AtualizarItem).Methods("PUT")
	api.HandleFunc("/orcamentos/{id}/itens/{iid}", orcamentoHandler.RemoverItem).Methods("DELETE")

	// Relatórios e painel
	api.HandleFunc("/relatorios/produtos-orcados", relatorioHandler.ProdutosOrcados).Methods("GET")
	api.HandleFunc("/dashboard", relatorioHandler.Dashboard).Methods("GET")

	handler := cors.AllowAll().Handler(r)

	addr := ":" + envOr("PORT", "8080")
	log.Info().Str("addr", addr).Msg("servidor rodando")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("servidor encerrado")
	}
}
