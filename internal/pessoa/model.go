package pessoa

import (
	"errors"

	"gorm.io/gorm"
)

// Pessoa pode ser cliente, vendedor ou ambos. O código sequencial é gerado
// na criação, começando em 1001.
type Pessoa struct {
	gorm.Model
	Codigo     int    `gorm:"uniqueIndex;not null" json:"codigo"`
	Nome       string `gorm:"size:255;not null" json:"nome"`
	EhCliente  bool   `gorm:"not null;default:false" json:"eh_cliente"`
	EhVendedor bool   `gorm:"not null;default:false" json:"eh_vendedor"`
}

const codigoInicial = 1001

// BeforeCreate gera o próximo código sequencial dentro da transação de insert.
func (p *Pessoa) BeforeCreate(tx *gorm.DB) error {
	if p.Codigo != 0 {
		return nil
	}
	var ultimo Pessoa
	err := tx.Unscoped().Order("codigo desc").First(&ultimo).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p.Codigo = codigoInicial
	case err != nil:
		return err
	default:
		p.Codigo = ultimo.Codigo + 1
	}
	return nil
}
