package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de entrada inválida retornados por CalcularItem.
var (
	ErrQuantidadeInvalida = errors.New("quantidade deve ser maior que zero")
	ErrOfertaInvalida     = errors.New("oferta inválida: quantidade a pagar deve ser menor que a quantidade a levar")
)

// Oferta é a regra promocional "Leve X, Pague Y" já filtrada por validade
// pelo chamador. O motor só compara quantidades.
type Oferta struct {
	QuantidadeLevar int
	QuantidadePagar int
}

// Resultado é o preço calculado de um item de orçamento.
type Resultado struct {
	QuantidadePaga int
	Desconto       decimal.Decimal // percentual, 2 casas
	PrecoTotal     decimal.Decimal // 2 casas
}

var cem = decimal.NewFromInt(100)

// CalcularItem calcula a quantidade efetivamente paga, o desconto percentual
// e o preço total de um item, aplicando a melhor oferta elegível.
//
// Elegível é a oferta cujo QuantidadeLevar <= quantidade. Entre as elegíveis
// vence a de maior QuantidadeLevar; em empate, a de menor QuantidadePagar
// (maior desconto). Unidades que sobram fora de um grupo completo são pagas
// integralmente. Função pura: sem relógio, sem I/O, sem estado.
func CalcularItem(precoUnitario decimal.Decimal, quantidade int, ofertas []Oferta) (Resultado, error) {
	if quantidade < 1 {
		return Resultado{}, fmt.Errorf("%w: %d", ErrQuantidadeInvalida, quantidade)
	}
	for _, o := range ofertas {
		if o.QuantidadeLevar < 1 || o.QuantidadePagar < 1 || o.QuantidadePagar >= o.QuantidadeLevar {
			return Resultado{}, fmt.Errorf("%w: levar=%d pagar=%d", ErrOfertaInvalida, o.QuantidadeLevar, o.QuantidadePagar)
		}
	}

	oferta, ok := melhorOferta(quantidade, ofertas)
	if !ok {
		total := precoUnitario.Mul(decimal.NewFromInt(int64(quantidade))).Round(2)
		return Resultado{
			QuantidadePaga: quantidade,
			Desconto:       decimal.Zero,
			PrecoTotal:     total,
		}, nil
	}

	grupos := quantidade / oferta.QuantidadeLevar
	sobra := quantidade % oferta.QuantidadeLevar
	quantidadePaga := grupos*oferta.QuantidadePagar + sobra

	totalCheio := precoUnitario.Mul(decimal.NewFromInt(int64(quantidade)))
	total := precoUnitario.Mul(decimal.NewFromInt(int64(quantidadePaga)))

	desconto := decimal.Zero
	if totalCheio.IsPositive() {
		// arredondamento meio-afastado-do-zero, 2 casas
		desconto = decimal.NewFromInt(1).Sub(total.Div(totalCheio)).Mul(cem).Round(2)
	}

	return Resultado{
		QuantidadePaga: quantidadePaga,
		Desconto:       desconto,
		PrecoTotal:     total.Round(2),
	}, nil
}

// melhorOferta seleciona a oferta elegível de maior QuantidadeLevar,
// desempatando pela menor QuantidadePagar.
func melhorOferta(quantidade int, ofertas []Oferta) (Oferta, bool) {
	var melhor Oferta
	achou := false
	for _, o := range ofertas {
		if o.QuantidadeLevar > quantidade {
			continue
		}
		if !achou ||
			o.QuantidadeLevar > melhor.QuantidadeLevar ||
			(o.QuantidadeLevar == melhor.QuantidadeLevar && o.QuantidadePagar < melhor.QuantidadePagar) {
			melhor = o
			achou = true
		}
	}
	return melhor, achou
}
