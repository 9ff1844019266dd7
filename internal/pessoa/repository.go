package pessoa

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, p *Pessoa) error
	ListarTodas(db *gorm.DB) ([]Pessoa, error)
	BuscarPorID(db *gorm.DB, id uint) (*Pessoa, error)
	Atualizar(db *gorm.DB, p *Pessoa) error
	Deletar(db *gorm.DB, id uint) error
	PossuiOrcamentos(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Pessoa) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) ListarTodas(db *gorm.DB) ([]Pessoa, error) {
	var list []Pessoa
	err := db.Order("codigo").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Pessoa, error) {
	var p Pessoa
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Pessoa) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Pessoa{}, id).Error
}

// PossuiOrcamentos indica se a pessoa participa de algum orçamento, como
// cliente ou como vendedora. Pessoas com orçamentos não podem ser excluídas.
func (r *repositoryImpl) PossuiOrcamentos(db *gorm.DB, id uint) (bool, error) {
	var total int64
	err := db.Table("orcamentos").
		Where("deleted_at IS NULL").
		Where("cliente_id = ? OR vendedor_id = ?", id, id).
		Count(&total).Error
	return total > 0, err
}
