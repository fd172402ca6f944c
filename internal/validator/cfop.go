package validator

import (
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
)

func (r *run) checkCFOP() {
	code, fromItem := r.doc.PrimaryCFOP()
	check := &model.CFOPCheck{FromItem: fromItem}
	r.validations.CFOP = check

	normalized := reference.NormalizeCFOP(code)
	if normalized == "" {
		check.Type = string(reference.CategoryUnknown)
		// manifests carry no operation code
		if r.kind != model.KindMDFe {
			r.diag.Error("CFOP não informado")
		}
		return
	}

	check.Exists = true
	check.Code = normalized
	check.Type = string(reference.ClassifyCFOP(normalized))

	row, ok := reference.LookupCFOP(normalized)
	if !ok {
		r.diag.Warn("CFOP %s não reconhecido", code)
		return
	}
	check.Known = true
	check.Description = row.Description
}
