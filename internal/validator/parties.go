package validator

import (
	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/model"
)

// Identifier kinds reported in party details
const (
	IDKindCNPJ    = "cnpj"
	IDKindCPF     = "cpf"
	IDKindUnknown = "desconhecido"
)

func (r *run) checkIssuer() {
	issuer := r.doc.Emitente
	check := &model.IssuerCheck{Tipo: IDKindUnknown}
	r.validations.Emitente = check

	if issuer != nil && issuer.Malformed {
		r.diag.Error("Emitente com formato inválido")
		return
	}

	check.RazaoSocial = issuer.Name() != ""
	defer func() {
		if !check.RazaoSocial {
			r.diag.Warn("Razão social do emitente não informada")
		}
	}()

	id := issuer.Identifier()
	if id == "" {
		r.diag.Error("CNPJ do emitente não informado")
		return
	}

	check.Documento = cnpj.Digits(id)
	switch cnpj.Kind(id) {
	case IDKindCPF:
		// a CPF issuer is accepted without checksum
		check.Tipo = IDKindCPF
		r.diag.Warn("Emitente identificado por CPF: %s", id)
		return
	case IDKindCNPJ:
		check.Tipo = IDKindCNPJ
	}

	verdict := r.v.cnpj.Validate(id)
	check.CNPJ = verdict.Valid
	check.Override = verdict.Overridden
	if verdict.Overridden {
		r.v.sink.Event(Event{
			Level:   LevelInfo,
			Kind:    KindOverride,
			Phase:   PhaseIssuer,
			Field:   "emitente.cnpj",
			Value:   verdict.Digits,
			Message: "fixed verdict from override table",
		})
	}
	if !verdict.Valid {
		r.diag.Error("CNPJ do emitente inválido: %s", id)
	}
}

func (r *run) checkRecipient() {
	recipient := r.doc.Destinatario
	if recipient == nil {
		r.validations.Destinatario = &model.RecipientCheck{}
		return
	}

	check := &model.RecipientCheck{Presente: true, Tipo: IDKindUnknown}
	r.validations.Destinatario = check

	if recipient.Malformed {
		r.diag.Warn("Destinatário com formato inválido")
		return
	}

	id := recipient.Identifier()
	if id == "" {
		r.diag.Warn("CNPJ/CPF do destinatário não informado")
		return
	}
	check.Documento = cnpj.Digits(id)

	switch cnpj.Kind(id) {
	case IDKindCNPJ:
		check.Tipo = IDKindCNPJ
		check.Valido = r.v.cnpj.IsValid(id)
		if !check.Valido {
			r.diag.Warn("CNPJ do destinatário inválido: %s", id)
		}
	case IDKindCPF:
		check.Tipo = IDKindCPF
		check.Valido = true
	default:
		r.diag.Warn("CNPJ/CPF do destinatário inválido: %s", id)
	}
}
