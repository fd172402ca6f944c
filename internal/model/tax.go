package model

import (
	"bytes"
	"encoding/json"
)

// Tax block keys as produced by the document parser
const (
	TaxKeyICMS   = "icms"
	TaxKeyIPI    = "ipi"
	TaxKeyPIS    = "pis"
	TaxKeyCOFINS = "cofins"
	TaxKeyICMSST = "icms_st"
)

// TaxEntry is one tax of the impostos block. It is one of StructuredTax,
// FlatTax or MalformedTax; a nil TaxEntry means the tax is absent.
type TaxEntry interface {
	taxEntry()
}

// StructuredTax is a tax given as a mapping with situation code and values
type StructuredTax struct {
	CST         Text
	HasCST      bool
	CSOSN       Text
	HasCSOSN    bool
	Aliquota    Amount
	Valor       Amount
	MVA         Amount
	BaseCalculo Amount
}

// FlatTax is a legacy tax given as a bare number or numeric text
type FlatTax struct {
	Value Amount
}

// MalformedTax is a tax entry of an unrecognized shape
type MalformedTax struct {
	Raw string
}

func (StructuredTax) taxEntry() {}
func (FlatTax) taxEntry()       {}
func (MalformedTax) taxEntry()  {}

// structuredFields is the wire shape of StructuredTax
type structuredFields struct {
	CST         *Text  `json:"cst,omitempty"`
	CSOSN       *Text  `json:"csosn,omitempty"`
	Aliquota    Amount `json:"aliquota"`
	Valor       Amount `json:"valor"`
	MVA         Amount `json:"mva"`
	BaseCalculo Amount `json:"base_calculo"`
}

// MarshalJSON implements json.Marshaler
func (s StructuredTax) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if s.HasCST {
		out["cst"] = s.CST
	}
	if s.HasCSOSN {
		out["csosn"] = s.CSOSN
	}
	for key, amount := range map[string]Amount{
		"aliquota":     s.Aliquota,
		"valor":        s.Valor,
		"mva":          s.MVA,
		"base_calculo": s.BaseCalculo,
	} {
		if amount.IsSet() {
			out[key] = amount
		}
	}
	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler
func (f FlatTax) MarshalJSON() ([]byte, error) {
	return f.Value.MarshalJSON()
}

// MarshalJSON implements json.Marshaler
func (m MalformedTax) MarshalJSON() ([]byte, error) {
	if json.Valid([]byte(m.Raw)) {
		return []byte(m.Raw), nil
	}
	return json.Marshal(m.Raw)
}

// DecodeTaxEntry dispatches a raw impostos entry to its variant.
// Returns nil for null or empty input.
func DecodeTaxEntry(raw json.RawMessage) TaxEntry {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return MalformedTax{Raw: string(trimmed)}
		}
		var fields structuredFields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return MalformedTax{Raw: string(trimmed)}
		}
		entry := StructuredTax{
			Aliquota:    fields.Aliquota,
			Valor:       fields.Valor,
			MVA:         fields.MVA,
			BaseCalculo: fields.BaseCalculo,
		}
		if _, ok := keys["cst"]; ok {
			entry.HasCST = true
			if fields.CST != nil {
				entry.CST = *fields.CST
			}
		}
		if _, ok := keys["csosn"]; ok {
			entry.HasCSOSN = true
			if fields.CSOSN != nil {
				entry.CSOSN = *fields.CSOSN
			}
		}
		return entry
	case '"':
		var amount Amount
		if err := json.Unmarshal(trimmed, &amount); err != nil || !amount.IsSet() {
			return MalformedTax{Raw: string(trimmed)}
		}
		return FlatTax{Value: amount}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var amount Amount
		if err := json.Unmarshal(trimmed, &amount); err != nil {
			return MalformedTax{Raw: string(trimmed)}
		}
		return FlatTax{Value: amount}
	default:
		return MalformedTax{Raw: string(trimmed)}
	}
}

// TaxBlock is the impostos mapping of a document
type TaxBlock struct {
	ICMS   TaxEntry
	IPI    TaxEntry
	PIS    TaxEntry
	COFINS TaxEntry
	ICMSST TaxEntry
}

// UnmarshalJSON implements json.Unmarshaler
func (b *TaxBlock) UnmarshalJSON(data []byte) error {
	*b = TaxBlock{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		// a non-mapping block carries no usable tax
		return nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return err
	}
	b.ICMS = DecodeTaxEntry(entries[TaxKeyICMS])
	b.IPI = DecodeTaxEntry(entries[TaxKeyIPI])
	b.PIS = DecodeTaxEntry(entries[TaxKeyPIS])
	b.COFINS = DecodeTaxEntry(entries[TaxKeyCOFINS])
	b.ICMSST = DecodeTaxEntry(entries[TaxKeyICMSST])
	return nil
}

// MarshalJSON implements json.Marshaler
func (b TaxBlock) MarshalJSON() ([]byte, error) {
	out := map[string]TaxEntry{}
	for key, entry := range map[string]TaxEntry{
		TaxKeyICMS:   b.ICMS,
		TaxKeyIPI:    b.IPI,
		TaxKeyPIS:    b.PIS,
		TaxKeyCOFINS: b.COFINS,
		TaxKeyICMSST: b.ICMSST,
	} {
		if entry != nil {
			out[key] = entry
		}
	}
	return json.Marshal(out)
}

// IsEmpty reports whether no tax entry is present
func (b *TaxBlock) IsEmpty() bool {
	return b == nil || (b.ICMS == nil && b.IPI == nil && b.PIS == nil && b.COFINS == nil && b.ICMSST == nil)
}
