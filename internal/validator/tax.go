package validator

import (
	"github.com/shopspring/decimal"

	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
)

// ICMS regimes reported in TaxCheck.Regime
const (
	RegimeNormal     = "normal"
	RegimeSimples    = "simples_nacional"
	RegimeFlat       = "simplificado"
	RegimeUndetected = "nao_identificado"
)

// defaultCST is assumed for bare tax values
const defaultCST = "00"

// TaxOutcome is the result of validating one impostos block
type TaxOutcome struct {
	Detail      model.TaxCheck
	Diagnostics Diagnostics
}

// ValidateTaxes validates ICMS, IPI, PIS, COFINS and ICMS-ST. flatICMS
// selects the transport rule where ICMS is a single value that only has
// to be non-negative. A nil block yields advisory ICMS and IPI issues that
// do not force the error status; a present block without ICMS is an error.
func ValidateTaxes(block *model.TaxBlock, flatICMS bool, sink Sink) TaxOutcome {
	return validateTaxes(block, flatICMS, fdec.DefaultTolerance, sink)
}

func validateTaxes(block *model.TaxBlock, flatICMS bool, tolerance decimal.Decimal, sink Sink) TaxOutcome {
	if sink == nil {
		sink = NopSink{}
	}
	t := &taxRun{sink: sink, tolerance: tolerance}
	t.validate(block, flatICMS)
	return TaxOutcome{Detail: t.detail, Diagnostics: t.diag}
}

func (r *run) checkTaxes() {
	out := validateTaxes(r.doc.Impostos, r.kind == model.KindCTe, r.v.tolerance, r.v.sink)
	r.validations.Impostos = &out.Detail
	r.diag.Merge(out.Diagnostics)
}

type taxRun struct {
	sink      Sink
	tolerance decimal.Decimal
	diag      Diagnostics
	detail    model.TaxCheck
}

func (t *taxRun) amount(a model.Amount, field string) decimal.Decimal {
	d, _ := convert(a, field, PhaseTaxes, &t.diag, t.sink)
	return d
}

func (t *taxRun) validate(block *model.TaxBlock, flatICMS bool) {
	if block == nil {
		t.diag.Note("ICMS não informado")
		t.diag.Note("IPI não informado")
		return
	}
	t.detail.Presente = true

	t.detail.ICMS = t.icms(block.ICMS, flatICMS)
	t.detail.IPI = t.ipi(block.IPI)
	t.detail.PIS = t.pisCofins("PIS", model.TaxKeyPIS, block.PIS)
	t.detail.COFINS = t.pisCofins("COFINS", model.TaxKeyCOFINS, block.COFINS)
	t.detail.ICMSST = t.icmsST(block.ICMSST)
}

func (t *taxRun) icms(entry model.TaxEntry, flat bool) *model.TaxDetail {
	if entry == nil {
		t.diag.Error("ICMS não informado")
		return nil
	}

	switch e := entry.(type) {
	case model.MalformedTax:
		t.detail.Regime = RegimeUndetected
		t.diag.Error("ICMS com formato inválido")
		return &model.TaxDetail{Formato: model.TaxShapeMalformed}

	case model.FlatTax:
		return t.flatICMS(e.Value, model.TaxShapeFlat)

	case model.StructuredTax:
		if flat {
			return t.flatICMS(e.Valor, model.TaxShapeStructured)
		}
		return t.structuredICMS(e)
	}
	return nil
}

func (t *taxRun) flatICMS(value model.Amount, shape string) *model.TaxDetail {
	t.detail.Regime = RegimeFlat
	v := fdec.RoundMoney(t.amount(value, "impostos.icms"))
	detail := &model.TaxDetail{Formato: shape, Valor: fdec.Float(v), Valido: true}
	if v.IsNegative() {
		detail.Valido = false
		t.diag.Error("Valor de ICMS negativo: %s", fdec.FormatBRL(v))
	}
	return detail
}

func (t *taxRun) structuredICMS(e model.StructuredTax) *model.TaxDetail {
	aliquota := t.amount(e.Aliquota, "impostos.icms.aliquota")
	valor := fdec.RoundMoney(t.amount(e.Valor, "impostos.icms.valor"))
	detail := &model.TaxDetail{
		Formato:  model.TaxShapeStructured,
		Aliquota: fdec.Float(aliquota),
		Valor:    fdec.Float(valor),
		Valido:   true,
	}
	t.checkBase("ICMS", model.TaxKeyICMS, e, aliquota, valor, detail)

	switch {
	case e.HasCST:
		t.detail.Regime = RegimeNormal
		cst := reference.NormalizeICMSCST(e.CST.String())
		detail.CST = cst
		if !reference.ValidICMSCST(cst) {
			detail.Valido = false
			t.diag.Error("CST ICMS inválido: %s", e.CST)
			return detail
		}
		if reference.ICMSRequiresValue(cst) && !fdec.IsPositive(valor) {
			t.diag.Warn("ICMS zerado para CST %s", cst)
		}

	case e.HasCSOSN:
		t.detail.Regime = RegimeSimples
		csosn := reference.OnlyDigits(e.CSOSN.String())
		detail.CSOSN = csosn
		if !reference.ValidCSOSN(csosn) {
			detail.Valido = false
			t.diag.Error("CSOSN inválido: %s", e.CSOSN)
		}

	default:
		t.detail.Regime = RegimeUndetected
		detail.Valido = false
		t.diag.Warn("ICMS sem CST ou CSOSN informado")
	}
	return detail
}

func (t *taxRun) ipi(entry model.TaxEntry) *model.TaxDetail {
	if entry == nil {
		t.diag.Warn("IPI não informado")
		return nil
	}

	detail := &model.TaxDetail{CST: defaultCST, CSTPadrao: true, Valido: true}
	var aliquota, valor decimal.Decimal

	switch e := entry.(type) {
	case model.StructuredTax:
		detail.Formato = model.TaxShapeStructured
		if e.HasCST && !e.CST.IsEmpty() {
			detail.CST = reference.NormalizeCST(e.CST.String())
			detail.CSTPadrao = false
		}
		aliquota = t.amount(e.Aliquota, "impostos.ipi.aliquota")
		valor = fdec.RoundMoney(t.amount(e.Valor, "impostos.ipi.valor"))
		t.checkBase("IPI", model.TaxKeyIPI, e, aliquota, valor, detail)
	case model.FlatTax:
		detail.Formato = model.TaxShapeFlat
		valor = fdec.RoundMoney(t.amount(e.Value, "impostos.ipi"))
	default:
		detail.Formato = model.TaxShapeMalformed
		detail.Valido = false
		t.diag.Warn("IPI com formato não reconhecido, assumido CST %s", defaultCST)
		return detail
	}

	detail.Aliquota = fdec.Float(aliquota)
	detail.Valor = fdec.Float(valor)

	if !reference.ValidIPICST(detail.CST) {
		detail.Valido = false
		t.diag.Warn("CST IPI inválido: %s", detail.CST)
		return detail
	}
	if !reference.IPIExempt(detail.CST) &&
		(fdec.IsPositive(aliquota) || fdec.IsPositive(valor)) {
		t.diag.Warn("IPI com alíquota ou valor positivo para CST %s", detail.CST)
	}
	return detail
}

func (t *taxRun) pisCofins(name, key string, entry model.TaxEntry) *model.TaxDetail {
	if entry == nil {
		t.diag.Warn("%s não informado", name)
		return nil
	}

	detail := &model.TaxDetail{CST: defaultCST, CSTPadrao: true, Valido: true}
	var aliquota, valor decimal.Decimal
	field := "impostos." + key

	switch e := entry.(type) {
	case model.StructuredTax:
		detail.Formato = model.TaxShapeStructured
		if e.HasCST && !e.CST.IsEmpty() {
			detail.CST = reference.NormalizeCST(e.CST.String())
			detail.CSTPadrao = false
		}
		aliquota = t.amount(e.Aliquota, field+".aliquota")
		valor = fdec.RoundMoney(t.amount(e.Valor, field+".valor"))
		t.checkBase(name, key, e, aliquota, valor, detail)
	case model.FlatTax:
		detail.Formato = model.TaxShapeFlat
		valor = fdec.RoundMoney(t.amount(e.Value, field))
	default:
		detail.Formato = model.TaxShapeMalformed
		detail.Valido = false
		t.diag.Warn("%s com formato não reconhecido, assumido CST %s", name, defaultCST)
		return detail
	}

	detail.Aliquota = fdec.Float(aliquota)
	detail.Valor = fdec.Float(valor)

	if detail.CSTPadrao {
		return detail
	}
	if !reference.ValidPISCOFINSCST(detail.CST) {
		detail.Valido = false
		t.diag.Warn("CST %s inválido: %s", name, detail.CST)
		return detail
	}
	if reference.PISCOFINSTaxed(detail.CST) && (!fdec.IsPositive(aliquota) || !fdec.IsPositive(valor)) {
		t.diag.Warn("%s com CST %s sem alíquota ou valor", name, detail.CST)
	}
	return detail
}

// checkBase warns when a structured entry's valor differs from
// base_calculo x aliquota by more than the tolerance
func (t *taxRun) checkBase(name, key string, e model.StructuredTax, aliquota, valor decimal.Decimal, detail *model.TaxDetail) {
	if !e.BaseCalculo.IsSet() || !e.Valor.IsSet() {
		return
	}
	base := fdec.RoundMoney(t.amount(e.BaseCalculo, "impostos."+key+".base_calculo"))
	detail.BaseCalculo = fdec.Float(base)
	if !fdec.IsPositive(base) || !fdec.IsPositive(aliquota) {
		return
	}
	expected := fdec.CalculatePercentage(base, aliquota)
	if !fdec.WithinTolerance(expected, valor, t.tolerance) {
		t.diag.Warn("%s: valor %s difere de base de cálculo x alíquota (%s)",
			name, fdec.FormatBRL(valor), fdec.FormatBRL(expected))
	}
}

func (t *taxRun) icmsST(entry model.TaxEntry) *model.TaxDetail {
	if entry == nil {
		return nil
	}

	detail := &model.TaxDetail{Valido: true}
	var valor, mva, aliquota decimal.Decimal

	switch e := entry.(type) {
	case model.StructuredTax:
		detail.Formato = model.TaxShapeStructured
		valor = fdec.RoundMoney(t.amount(e.Valor, "impostos.icms_st.valor"))
		mva = t.amount(e.MVA, "impostos.icms_st.mva")
		aliquota = t.amount(e.Aliquota, "impostos.icms_st.aliquota")
		if e.HasCST {
			detail.CST = reference.NormalizeICMSCST(e.CST.String())
		}
	case model.FlatTax:
		detail.Formato = model.TaxShapeFlat
		valor = fdec.RoundMoney(t.amount(e.Value, "impostos.icms_st"))
	default:
		detail.Formato = model.TaxShapeMalformed
		detail.Valido = false
		t.diag.Warn("ICMS-ST com formato não reconhecido")
		return detail
	}

	detail.Valor = fdec.Float(valor)
	detail.MVA = fdec.Float(mva)
	detail.Aliquota = fdec.Float(aliquota)

	if fdec.IsPositive(valor) && !fdec.IsPositive(mva) && !fdec.IsPositive(aliquota) {
		t.diag.Warn("ICMS-ST com valor %s sem MVA ou alíquota", fdec.FormatBRL(valor))
	}
	return detail
}
