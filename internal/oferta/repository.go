package oferta

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(o *Oferta) error {
	return r.DB.Create(o).Error
}

func (r *Repository) ListAll() ([]Oferta, error) {
	var ofertas []Oferta
	err := r.DB.Preload("Produto").Find(&ofertas).Error
	return ofertas, err
}

func (r *Repository) FindByID(id uint) (*Oferta, error) {
	var o Oferta
	if err := r.DB.Preload("Produto").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) FindByProduto(produtoID uint) ([]Oferta, error) {
	var ofertas []Oferta
	err := r.DB.Where("produto_id = ?", produtoID).Find(&ofertas).Error
	return ofertas, err
}

// ListarVigentes retorna as ofertas do produto válidas na data de referência:
// sem prazo ou com data_validade na data-calendário de ref ou depois. A
// comparação usa a data no fuso de ref, normalizada para meia-noite UTC como
// as datas de validade são gravadas; uma oferta que vence hoje vale o dia
// inteiro. O filtro de validade mora aqui, no chamador do motor de preços,
// nunca dentro dele.
func (r *Repository) ListarVigentes(produtoID uint, ref time.Time) ([]Oferta, error) {
	var ofertas []Oferta
	dia := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	err := r.DB.
		Where("produto_id = ?", produtoID).
		Where("data_validade IS NULL OR data_validade >= ?", dia).
		Find(&ofertas).Error
	return ofertas, err
}

func (r *Repository) Update(o *Oferta) error {
	return r.DB.Save(o).Error
}

func (r *Repository) Delete(o *Oferta) error {
	return r.DB.Delete(o).Error
}
