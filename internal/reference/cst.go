package reference

// codeSet is a fixed set of situation codes
type codeSet map[string]string

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

var icmsCST = codeSet{
	"00": "Tributada integralmente",
	"10": "Tributada e com cobrança do ICMS por substituição tributária",
	"20": "Com redução de base de cálculo",
	"30": "Isenta ou não tributada e com cobrança do ICMS por substituição tributária",
	"40": "Isenta",
	"41": "Não tributada",
	"50": "Suspensão",
	"51": "Diferimento",
	"60": "ICMS cobrado anteriormente por substituição tributária",
	"70": "Com redução de base de cálculo e cobrança do ICMS por substituição tributária",
	"90": "Outras",
}

// icmsNoValueCST are situations where a zero ICMS value is expected
var icmsNoValueCST = codeSet{"40": "", "41": "", "50": ""}

var csosnCodes = codeSet{
	"101": "Tributada pelo Simples Nacional com permissão de crédito",
	"102": "Tributada pelo Simples Nacional sem permissão de crédito",
	"103": "Isenção do ICMS no Simples Nacional para faixa de receita bruta",
	"201": "Tributada pelo Simples Nacional com permissão de crédito e com cobrança do ICMS por substituição tributária",
	"202": "Tributada pelo Simples Nacional sem permissão de crédito e com cobrança do ICMS por substituição tributária",
	"203": "Isenção do ICMS no Simples Nacional para faixa de receita bruta e com cobrança do ICMS por substituição tributária",
	"300": "Imune",
	"400": "Não tributada pelo Simples Nacional",
	"500": "ICMS cobrado anteriormente por substituição tributária ou por antecipação",
	"900": "Outros",
}

var ipiCST = codeSet{
	"00": "Entrada com recuperação de crédito",
	"01": "Entrada tributada com alíquota zero",
	"02": "Entrada isenta",
	"03": "Entrada não tributada",
	"04": "Entrada imune",
	"05": "Entrada com suspensão",
	"49": "Outras entradas",
	"50": "Saída tributada",
	"51": "Saída tributada com alíquota zero",
	"52": "Saída isenta",
	"53": "Saída não tributada",
	"54": "Saída imune",
	"55": "Saída com suspensão",
	"99": "Outras saídas",
}

// ipiExemptCST are the zero-rate, exempt, untaxed, immune and suspended situations
var ipiExemptCST = codeSet{
	"01": "", "02": "", "03": "", "04": "",
	"51": "", "52": "", "53": "", "54": "", "55": "",
}

var pisCofinsCST = codeSet{
	"01": "Operação tributável com alíquota básica",
	"02": "Operação tributável com alíquota diferenciada",
	"03": "Operação tributável com alíquota por unidade de medida de produto",
	"04": "Operação tributável monofásica, revenda a alíquota zero",
	"05": "Operação tributável por substituição tributária",
	"06": "Operação tributável a alíquota zero",
	"07": "Operação isenta da contribuição",
	"08": "Operação sem incidência da contribuição",
	"09": "Operação com suspensão da contribuição",
	"49": "Outras operações de saída",
	"50": "Operação com direito a crédito, vinculada exclusivamente a receita tributada no mercado interno",
	"51": "Operação com direito a crédito, vinculada exclusivamente a receita não tributada no mercado interno",
	"52": "Operação com direito a crédito, vinculada exclusivamente a receita de exportação",
	"53": "Operação com direito a crédito, vinculada a receitas tributadas e não tributadas no mercado interno",
	"54": "Operação com direito a crédito, vinculada a receitas tributadas no mercado interno e de exportação",
	"55": "Operação com direito a crédito, vinculada a receitas não tributadas no mercado interno e de exportação",
	"56": "Operação com direito a crédito, vinculada a receitas tributadas e não tributadas no mercado interno e de exportação",
	"60": "Crédito presumido, operação de aquisição vinculada exclusivamente a receita tributada no mercado interno",
	"61": "Crédito presumido, operação de aquisição vinculada exclusivamente a receita não tributada no mercado interno",
	"62": "Crédito presumido, operação de aquisição vinculada exclusivamente a receita de exportação",
	"63": "Crédito presumido, operação de aquisição vinculada a receitas tributadas e não tributadas no mercado interno",
	"64": "Crédito presumido, operação de aquisição vinculada a receitas tributadas no mercado interno e de exportação",
	"65": "Crédito presumido, operação de aquisição vinculada a receitas não tributadas no mercado interno e de exportação",
	"66": "Crédito presumido, operação de aquisição vinculada a receitas tributadas e não tributadas no mercado interno e de exportação",
	"67": "Crédito presumido, outras operações",
	"70": "Operação de aquisição sem direito a crédito",
	"71": "Operação de aquisição com isenção",
	"72": "Operação de aquisição com suspensão",
	"73": "Operação de aquisição a alíquota zero",
	"74": "Operação de aquisição sem incidência da contribuição",
	"75": "Operação de aquisição por substituição tributária",
	"98": "Outras operações de entrada",
	"99": "Outras operações",
}

// pisCofinsTaxedCST are the taxed situations that expect a positive rate and value
var pisCofinsTaxedCST = codeSet{"01": "", "02": ""}

// NormalizeICMSCST reduces an ICMS CST to its two tax-situation digits.
// Three-digit codes carry the merchandise origin (0 to 8) as first digit.
func NormalizeICMSCST(code string) string {
	digits := OnlyDigits(code)
	switch {
	case len(digits) == 1:
		return "0" + digits
	case len(digits) == 3 && digits[0] <= '8':
		return digits[1:]
	}
	return digits
}

// NormalizeCST left-pads a one-digit CST
func NormalizeCST(code string) string {
	digits := OnlyDigits(code)
	if len(digits) == 1 {
		return "0" + digits
	}
	return digits
}

// ValidICMSCST reports whether the CST is a known ICMS tax situation
func ValidICMSCST(code string) bool {
	return icmsCST.has(NormalizeICMSCST(code))
}

// ICMSRequiresValue reports whether the ICMS CST expects a positive tax value
func ICMSRequiresValue(code string) bool {
	return !icmsNoValueCST.has(NormalizeICMSCST(code))
}

// ValidCSOSN reports whether the code is a known Simples Nacional situation
func ValidCSOSN(code string) bool {
	return csosnCodes.has(OnlyDigits(code))
}

// ValidIPICST reports whether the CST is a known IPI situation
func ValidIPICST(code string) bool {
	return ipiCST.has(NormalizeCST(code))
}

// IPIExempt reports whether the IPI CST is exempt, immune or suspended
func IPIExempt(code string) bool {
	return ipiExemptCST.has(NormalizeCST(code))
}

// ValidPISCOFINSCST reports whether the CST is a known PIS/COFINS situation
func ValidPISCOFINSCST(code string) bool {
	return pisCofinsCST.has(NormalizeCST(code))
}

// PISCOFINSTaxed reports whether the CST expects a positive rate and value
func PISCOFINSTaxed(code string) bool {
	return pisCofinsTaxedCST.has(NormalizeCST(code))
}

// Describe returns the description of a tax situation code. kind is one
// of "icms", "csosn", "ipi", "pis" or "cofins".
func Describe(kind, code string) (string, bool) {
	var (
		set  codeSet
		norm string
	)
	switch kind {
	case "icms":
		set, norm = icmsCST, NormalizeICMSCST(code)
	case "csosn":
		set, norm = csosnCodes, OnlyDigits(code)
	case "ipi":
		set, norm = ipiCST, NormalizeCST(code)
	case "pis", "cofins":
		set, norm = pisCofinsCST, NormalizeCST(code)
	default:
		return "", false
	}
	desc, ok := set[norm]
	return desc, ok
}
