package orcamento

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, o *Orcamento) error
	ListarTodos(db *gorm.DB) ([]Orcamento, error)
	BuscarPorID(db *gorm.DB, id uint) (*Orcamento, error)
	AtualizarStatus(db *gorm.DB, id uint, status string) error
	Deletar(db *gorm.DB, id uint) error

	SalvarItem(db *gorm.DB, item *ItemOrcamento) error
	BuscarItem(db *gorm.DB, orcamentoID, itemID uint) (*ItemOrcamento, error)
	AtualizarItem(db *gorm.DB, item *ItemOrcamento) error
	DeletarItem(db *gorm.DB, item *ItemOrcamento) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, o *Orcamento) error {
	return db.Create(o).Error
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Orcamento, error) {
	var list []Orcamento
	err := db.
		Preload("Cliente").
		Preload("Vendedor").
		Preload("Itens.Produto").
		Order("id desc").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Orcamento, error) {
	var o Orcamento
	err := db.
		Preload("Cliente").
		Preload("Vendedor").
		Preload("Itens.Produto").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repositoryImpl) AtualizarStatus(db *gorm.DB, id uint, status string) error {
	return db.Model(&Orcamento{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	if err := db.Where("orcamento_id = ?", id).Delete(&ItemOrcamento{}).Error; err != nil {
		return err
	}
	return db.Delete(&Orcamento{}, id).Error
}

func (r *repositoryImpl) SalvarItem(db *gorm.DB, item *ItemOrcamento) error {
	return db.Create(item).Error
}

func (r *repositoryImpl) BuscarItem(db *gorm.DB, orcamentoID, itemID uint) (*ItemOrcamento, error) {
	var item ItemOrcamento
	err := db.
		Where("orcamento_id = ?", orcamentoID).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) AtualizarItem(db *gorm.DB, item *ItemOrcamento) error {
	return db.Save(item).Error
}

func (r *repositoryImpl) DeletarItem(db *gorm.DB, item *ItemOrcamento) error {
	return db.Delete(item).Error
}
