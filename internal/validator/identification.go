package validator

import (
	"strings"
	"time"

	"github.com/rezonia/fiscal-validator/internal/model"
)

// issueDateLayouts are the accepted data_emissao formats, tried in order
var issueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseIssueDate parses data_emissao in any accepted layout
func ParseIssueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r *run) checkIdentification() {
	doc := r.doc
	ident := &model.IdentificationCheck{
		Numero: !doc.Numero.IsEmpty(),
		Serie:  !doc.Serie.IsEmpty(),
		Valor:  doc.Numero.String(),
	}
	r.validations.Identificacao = ident

	if !ident.Numero {
		r.diag.Error("Número do documento não informado")
	}
	if !ident.Serie {
		r.diag.Warn("Série do documento não informada")
	}

	date := &model.IssueDateCheck{
		Presente: !doc.DataEmissao.IsEmpty(),
		Valor:    doc.DataEmissao.String(),
	}
	r.validations.DataEmissao = date

	if !date.Presente {
		r.diag.Warn("Data de emissão não informada")
		return
	}
	t, ok := ParseIssueDate(date.Valor)
	if !ok {
		r.diag.Warn("Data de emissão em formato não reconhecido: %s", date.Valor)
		return
	}
	date.FormatoValido = true
	date.Normalizada = t.Format("2006-01-02")
}
