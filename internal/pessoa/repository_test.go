package pessoa

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Pessoa{}))
	return db
}

func TestBeforeCreate_GeraCodigoSequencial(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	primeira := Pessoa{Nome: "Maria", EhCliente: true}
	require.NoError(t, repo.Salvar(db, &primeira))
	assert.Equal(t, 1001, primeira.Codigo)

	segunda := Pessoa{Nome: "João", EhVendedor: true}
	require.NoError(t, repo.Salvar(db, &segunda))
	assert.Equal(t, 1002, segunda.Codigo)

	// exclusão não libera o código para reuso
	require.NoError(t, repo.Deletar(db, segunda.ID))
	terceira := Pessoa{Nome: "Ana", EhCliente: true}
	require.NoError(t, repo.Salvar(db, &terceira))
	assert.Equal(t, 1003, terceira.Codigo)
}

func TestPossuiOrcamentos(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	// tabela mínima de orçamentos, sem depender do pacote orcamento
	require.NoError(t, db.Exec(`CREATE TABLE orcamentos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cliente_id INTEGER NOT NULL,
		vendedor_id INTEGER NOT NULL,
		deleted_at DATETIME
	)`).Error)

	cliente := Pessoa{Nome: "Maria", EhCliente: true}
	require.NoError(t, repo.Salvar(db, &cliente))
	vendedor := Pessoa{Nome: "João", EhVendedor: true}
	require.NoError(t, repo.Salvar(db, &vendedor))
	livre := Pessoa{Nome: "Ana"}
	require.NoError(t, repo.Salvar(db, &livre))

	require.NoError(t, db.Exec(
		"INSERT INTO orcamentos (cliente_id, vendedor_id) VALUES (?, ?)",
		cliente.ID, vendedor.ID,
	).Error)

	possui, err := repo.PossuiOrcamentos(db, cliente.ID)
	require.NoError(t, err)
	assert.True(t, possui, "cliente com orçamento")

	possui, err = repo.PossuiOrcamentos(db, vendedor.ID)
	require.NoError(t, err)
	assert.True(t, possui, "vendedor com orçamento")

	possui, err = repo.PossuiOrcamentos(db, livre.ID)
	require.NoError(t, err)
	assert.False(t, possui, "pessoa sem orçamentos")
}

func TestListarTodas_OrdenaPorCodigo(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	for _, nome := range []string{"Maria", "João", "Ana"} {
		require.NoError(t, repo.Salvar(db, &Pessoa{Nome: nome}))
	}

	todas, err := repo.ListarTodas(db)
	require.NoError(t, err)
	require.Len(t, todas, 3)
	assert.Equal(t, []int{1001, 1002, 1003}, []int{todas[0].Codigo, todas[1].Codigo, todas[2].Codigo})
}
