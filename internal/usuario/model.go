package usuario

import "gorm.io/gorm"

// Usuario autenticável do sistema.
type Usuario struct {
	gorm.Model
	Nome    string `gorm:"size:255;not null" json:"nome"`
	Email   string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Senha   string `gorm:"not null" json:"-"`
	IsAdmin bool   `gorm:"not null;default:false" json:"is_admin"`
}
