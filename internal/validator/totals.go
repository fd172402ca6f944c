package validator

import (
	"github.com/shopspring/decimal"

	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/model"
)

// Reconciliation is the outcome of comparing item line totals with the
// declared document total
type Reconciliation struct {
	Valid      bool
	Declared   decimal.Decimal
	Calculated decimal.Decimal
	Difference decimal.Decimal
	// Empty is set when there was nothing to reconcile: no line totals or
	// a missing or zero declared total
	Empty bool
}

// Reconcile sums line totals at 2 decimal places and compares the sum to
// the declared total within tolerance. With no lines or a zero declared
// total the result is invalid with a zero calculated sum.
func Reconcile(lineTotals []decimal.Decimal, declared, tolerance decimal.Decimal) Reconciliation {
	declared = fdec.RoundMoney(declared)
	if len(lineTotals) == 0 || declared.IsZero() {
		return Reconciliation{
			Declared:   declared,
			Calculated: fdec.Zero,
			Difference: fdec.Zero,
			Empty:      true,
		}
	}

	rounded := make([]decimal.Decimal, len(lineTotals))
	for i, t := range lineTotals {
		rounded[i] = fdec.RoundMoney(t)
	}
	sum := fdec.RoundMoney(fdec.Sum(rounded))
	diff := fdec.Diff(sum, declared)

	return Reconciliation{
		Valid:      diff.LessThanOrEqual(tolerance),
		Declared:   declared,
		Calculated: sum,
		Difference: diff,
	}
}

// ReconcileItems normalizes the items' line totals and the declared total
// and reconciles them. Conversion failures are reported to sink and the
// affected values are skipped.
func ReconcileItems(items []model.Item, declared model.Amount, tolerance decimal.Decimal, sink Sink) Reconciliation {
	if sink == nil {
		sink = NopSink{}
	}
	var diag Diagnostics
	total, _ := convert(declared, "total", PhaseTotals, &diag, sink)
	return Reconcile(lineTotalsOf(items, sink), total, tolerance)
}

func (r *run) checkTotals() {
	check := &model.TotalsCheck{}
	r.validations.Totals = check

	if !r.kind.HasLineItems() {
		check.Skipped = true
		check.Valid = true
		return
	}

	declared, _ := r.amount(r.doc.Total, "total")
	rec := Reconcile(r.lineTotals, declared, r.v.tolerance)

	check.Valid = rec.Valid
	check.DocumentTotal = fdec.Float(rec.Declared)
	check.CalculatedTotal = fdec.Float(rec.Calculated)
	check.Difference = fdec.Float(rec.Difference)
	r.calculated = rec.Calculated

	switch {
	case len(r.doc.Itens) == 0:
		// reported by the items phase
	case rec.Declared.IsZero():
		r.diag.Error("Valor total do documento não informado ou zerado")
	case !rec.Valid && !rec.Empty:
		r.diag.Error("Divergência nos totais: %s (nota) x %s (calculado) - Diferença: %s",
			fdec.FormatBRL(rec.Declared), fdec.FormatBRL(rec.Calculated), fdec.FormatBRL(rec.Difference))
	}
}
