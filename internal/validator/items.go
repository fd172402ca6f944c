package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
)

func (r *run) checkItems() {
	items := r.doc.Itens
	check := &model.ItemsCheck{
		HasItems: len(items) > 0,
		Count:    len(items),
	}
	r.validations.Itens = check

	if !r.kind.HasLineItems() {
		check.Skipped = true
		check.AllValid = true
		return
	}
	if len(items) == 0 {
		if r.doc.ItensMalformed {
			r.diag.Error("Lista de itens com formato inválido")
		}
		r.diag.Error("Documento não contém itens")
		return
	}

	check.AllValid = true
	check.Detalhes = make([]model.ItemDetail, 0, len(items))
	for i := range items {
		detail := r.checkItem(i+1, &items[i])
		if !detail.Valido {
			check.AllValid = false
		}
		check.Detalhes = append(check.Detalhes, detail)
	}
}

func (r *run) checkItem(n int, item *model.Item) model.ItemDetail {
	detail := model.ItemDetail{
		Indice:    n,
		Descricao: item.Descricao.String(),
		NCM:       reference.NormalizeNCM(item.NCM.String()),
		CFOP:      reference.NormalizeCFOP(item.CFOP.String()),
		Valido:    true,
	}
	if item.Malformed {
		detail.Valido = false
		r.diag.Error("Item %d: formato inválido", n)
		return detail
	}
	hardBefore := r.diag.hard

	if item.Descricao.IsEmpty() {
		r.diag.Warn("Item %d: Descrição não informada", n)
	}
	r.checkItemNCM(n, item.NCM.String())
	r.checkItemCFOP(n, item.CFOP.String())

	field := func(name string) string { return fmt.Sprintf("itens[%d].%s", n, name) }

	qty, qtyOK := r.amount(item.Quantidade, field("quantidade"))
	qty = fdec.RoundQuantity(qty)
	if !item.Quantidade.IsSet() || !fdec.IsPositive(qty) {
		r.diag.Error("Item %d: Quantidade inválida", n)
	}

	price, priceOK := r.amount(item.ValorUnitario, field("valor_unitario"))
	price = fdec.RoundQuantity(price)
	if !fdec.IsNonNegative(price) {
		r.diag.Error("Item %d: Valor unitário inválido", n)
	}

	total, totalOK := r.amount(item.ValorTotal, field("valor_total"))
	total = fdec.RoundMoney(total)
	if !item.ValorTotal.IsSet() || !fdec.IsNonNegative(total) {
		r.diag.Error("Item %d: Valor total inválido", n)
	} else if totalOK {
		r.lineTotals = append(r.lineTotals, total)
	}

	detail.Quantidade = fdec.Float(qty)
	detail.ValorUnitario = fdec.Float(price)
	detail.ValorTotal = fdec.Float(total)

	detail.Consistente = true
	if qtyOK && priceOK && totalOK && item.ValorUnitario.IsSet() && item.ValorTotal.IsSet() &&
		fdec.IsNonNegative(qty) && fdec.IsNonNegative(price) {
		calculated := fdec.LineTotal(qty, price)
		detail.Calculado = fdec.Float(calculated)
		if !fdec.WithinTolerance(calculated, total, r.v.tolerance) {
			detail.Consistente = false
			r.diag.Warn("Item %d: Valor total %s difere de quantidade x valor unitário (%s)",
				n, fdec.FormatBRL(total), fdec.FormatBRL(calculated))
		}
	}

	detail.Valido = r.diag.hard == hardBefore && detail.Consistente && qtyOK && priceOK && totalOK
	return detail
}

func (r *run) checkItemNCM(n int, ncm string) {
	switch {
	case ncm == "":
		r.diag.Warn("Item %d: NCM não informado", n)
	case !reference.ValidNCMFormat(ncm):
		r.diag.Warn("Item %d: NCM %s com formato inválido", n, ncm)
	default:
		if _, ok := reference.LookupNCM(ncm); !ok {
			r.diag.Warn("Item %d: NCM %s não reconhecido", n, ncm)
		}
	}
}

func (r *run) checkItemCFOP(n int, cfop string) {
	if cfop == "" {
		r.diag.Warn("Item %d: CFOP não informado", n)
		return
	}
	if _, ok := reference.LookupCFOP(cfop); !ok {
		r.diag.Warn("Item %d: CFOP %s não reconhecido", n, cfop)
	}
}

// lineTotalsOf normalizes item line totals for reconciliation, skipping
// missing values and conversion failures
func lineTotalsOf(items []model.Item, sink Sink) []decimal.Decimal {
	var diag Diagnostics
	totals := make([]decimal.Decimal, 0, len(items))
	for i := range items {
		if !items[i].ValorTotal.IsSet() {
			continue
		}
		field := fmt.Sprintf("itens[%d].valor_total", i+1)
		d, ok := convert(items[i].ValorTotal, field, PhaseTotals, &diag, sink)
		if !ok {
			continue
		}
		totals = append(totals, fdec.RoundMoney(d))
	}
	return totals
}
