package relatorio

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Filtro do relatório de produtos orçados. Campos zerados não filtram.
type Filtro struct {
	DataInicial *time.Time
	DataFinal   *time.Time
	Status      []string
	Produto     string // código exato ou trecho da descrição
}

// LinhaRelatorio é uma linha do relatório: um item de orçamento com o
// contexto de cliente e produto e o total bruto da linha.
type LinhaRelatorio struct {
	OrcamentoID   uint            `json:"orcamento_id"`
	Status        string          `json:"status"`
	Cliente       string          `json:"cliente"`
	ProdutoCodigo string          `json:"produto_codigo"`
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Total         decimal.Decimal `json:"total"`
}

func (r *Repository) aplicarFiltro(q *gorm.DB, f Filtro) *gorm.DB {
	if f.DataInicial != nil {
		q = q.Where("orcamentos.created_at >= ?", f.DataInicial)
	}
	if f.DataFinal != nil {
		// inclusivo: tudo que aconteceu até o fim do dia final
		q = q.Where("orcamentos.created_at < ?", f.DataFinal.AddDate(0, 0, 1))
	}
	if len(f.Status) > 0 {
		q = q.Where("orcamentos.status IN ?", f.Status)
	}
	if f.Produto != "" {
		q = q.Where("produtos.codigo = ? OR produtos.descricao LIKE ?", f.Produto, "%"+f.Produto+"%")
	}
	return q
}

func (r *Repository) base() *gorm.DB {
	return r.DB.Table("item_orcamentos").
		Joins("JOIN orcamentos ON orcamentos.id = item_orcamentos.orcamento_id").
		Joins("JOIN pessoas ON pessoas.id = orcamentos.cliente_id").
		Joins("JOIN produtos ON produtos.id = item_orcamentos.produto_id").
		Where("item_orcamentos.deleted_at IS NULL").
		Where("orcamentos.deleted_at IS NULL")
}

// ProdutosOrcados lista os itens orçados com os filtros aplicados,
// ordenados do orçamento mais recente para o mais antigo.
func (r *Repository) ProdutosOrcados(f Filtro) ([]LinhaRelatorio, error) {
	var linhas []LinhaRelatorio
	err := r.aplicarFiltro(r.base(), f).
		Select(`item_orcamentos.orcamento_id,
			orcamentos.status,
			pessoas.nome AS cliente,
			produtos.codigo AS produto_codigo,
			produtos.descricao AS produto,
			item_orcamentos.quantidade,
			item_orcamentos.preco_unitario,
			item_orcamentos.quantidade * item_orcamentos.preco_unitario AS total`).
		Order("item_orcamentos.orcamento_id DESC").
		Scan(&linhas).Error
	return linhas, err
}

// TotalGeral soma quantidade * preço unitário sobre o mesmo filtro do
// relatório.
func (r *Repository) TotalGeral(f Filtro) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.aplicarFiltro(r.base(), f).
		Select("SUM(item_orcamentos.quantidade * item_orcamentos.preco_unitario)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal.Round(2), nil
}

// Estatisticas do painel, relativas à data de referência.
type Estatisticas struct {
	TotalClientes  int64        `json:"total_clientes"`
	OrcamentosHoje int64        `json:"orcamentos_hoje"`
	OrcamentosMes  int64        `json:"orcamentos_mes"`
	UltimosSete    []ContagemDia `json:"ultimos_sete_dias"`
}

// ContagemDia é um ponto da série diária de orçamentos.
type ContagemDia struct {
	Dia   string `json:"dia"` // AAAA-MM-DD
	Total int64  `json:"total"`
}

// Dashboard calcula os números do painel: total de clientes, orçamentos do
// dia e do mês e a série dos últimos 7 dias, tudo relativo a ref.
func (r *Repository) Dashboard(ref time.Time) (*Estatisticas, error) {
	var e Estatisticas

	err := r.DB.Table("pessoas").
		Where("deleted_at IS NULL AND eh_cliente = ?", true).
		Count(&e.TotalClientes).Error
	if err != nil {
		return nil, err
	}

	inicioDia := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	err = r.DB.Table("orcamentos").
		Where("deleted_at IS NULL").
		Where("created_at >= ? AND created_at < ?", inicioDia, inicioDia.AddDate(0, 0, 1)).
		Count(&e.OrcamentosHoje).Error
	if err != nil {
		return nil, err
	}

	inicioMes := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	err = r.DB.Table("orcamentos").
		Where("deleted_at IS NULL").
		Where("created_at >= ? AND created_at < ?", inicioMes, inicioMes.AddDate(0, 1, 0)).
		Count(&e.OrcamentosMes).Error
	if err != nil {
		return nil, err
	}

	// série diária: de 6 dias atrás até hoje, incluindo dias sem orçamento
	for atras := 6; atras >= 0; atras-- {
		dia := inicioDia.AddDate(0, 0, -atras)
		var total int64
		err = r.DB.Table("orcamentos").
			Where("deleted_at IS NULL").
			Where("created_at >= ? AND created_at < ?", dia, dia.AddDate(0, 0, 1)).
			Count(&total).Error
		if err != nil {
			return nil, err
		}
		e.UltimosSete = append(e.UltimosSete, ContagemDia{
			Dia:   dia.Format("2006-01-02"),
			Total: total,
		})
	}

	return &e, nil
}
