// Package reference holds the static fiscal tables used by validation:
// CFOP operation codes, NCM merchandise chapters, and CST/CSOSN tax
// situation codes.
package reference

import (
	"strings"
)

// Category is the operation bucket of a CFOP code
type Category string

const (
	CategoryPurchase Category = "purchase"
	CategorySale     Category = "sale"
	CategoryReturn   Category = "return"
	CategoryOther    Category = "other"
	CategoryUnknown  Category = "unknown"
)

// CFOP is a row of the CFOP table
type CFOP struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

var cfopTable = map[string]CFOP{}

func register(category Category, rows map[string]string) {
	for code, desc := range rows {
		cfopTable[code] = CFOP{Code: code, Description: desc, Category: category}
	}
}

func init() {
	register(CategoryPurchase, map[string]string{
		"1101": "Compra para industrialização ou produção rural",
		"1102": "Compra para comercialização",
		"1111": "Compra para industrialização de mercadoria recebida anteriormente em consignação industrial",
		"1113": "Compra para comercialização de mercadoria recebida anteriormente em consignação mercantil",
		"1116": "Compra para industrialização originada de encomenda para recebimento futuro",
		"1117": "Compra para comercialização originada de encomenda para recebimento futuro",
		"1118": "Compra de mercadoria para comercialização pelo adquirente originário, entregue pelo vendedor remetente ao destinatário, em venda à ordem",
		"1120": "Compra para industrialização, em venda à ordem, já recebida do vendedor remetente",
		"1121": "Compra para comercialização, em venda à ordem, já recebida do vendedor remetente",
		"1122": "Compra para industrialização em que a mercadoria foi remetida pelo fornecedor ao industrializador sem transitar pelo estabelecimento adquirente",
		"1124": "Industrialização efetuada por outra empresa",
		"1126": "Compra para utilização na prestação de serviço sujeita ao ICMS",
		"1128": "Compra para utilização na prestação de serviço sujeita ao ISSQN",
		"1401": "Compra para industrialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"1403": "Compra para comercialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"1406": "Compra de bem para o ativo imobilizado cuja mercadoria está sujeita ao regime de substituição tributária",
		"1407": "Compra de mercadoria para uso ou consumo cuja mercadoria está sujeita ao regime de substituição tributária",
		"1551": "Compra de bem para o ativo imobilizado",
		"1556": "Compra de material para uso ou consumo",
		"2101": "Compra para industrialização ou produção rural",
		"2102": "Compra para comercialização",
		"2111": "Compra para industrialização de mercadoria recebida anteriormente em consignação industrial",
		"2113": "Compra para comercialização de mercadoria recebida anteriormente em consignação mercantil",
		"2116": "Compra para industrialização originada de encomenda para recebimento futuro",
		"2117": "Compra para comercialização originada de encomenda para recebimento futuro",
		"2120": "Compra para industrialização, em venda à ordem, já recebida do vendedor remetente",
		"2121": "Compra para comercialização, em venda à ordem, já recebida do vendedor remetente",
		"2124": "Industrialização efetuada por outra empresa",
		"2126": "Compra para utilização na prestação de serviço sujeita ao ICMS",
		"2128": "Compra para utilização na prestação de serviço sujeita ao ISSQN",
		"2401": "Compra para industrialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"2403": "Compra para comercialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"2406": "Compra de bem para o ativo imobilizado cuja mercadoria está sujeita ao regime de substituição tributária",
		"2407": "Compra de mercadoria para uso ou consumo cuja mercadoria está sujeita ao regime de substituição tributária",
		"2551": "Compra de bem para o ativo imobilizado",
		"2556": "Compra de material para uso ou consumo",
		"3101": "Compra para industrialização ou produção rural",
		"3102": "Compra para comercialização",
		"3126": "Compra para utilização na prestação de serviço sob o regime de drawback",
		"3127": "Compra para industrialização sob o regime de drawback",
		"3551": "Compra de bem para o ativo imobilizado",
		"3556": "Compra de material para uso ou consumo",
	})

	register(CategorySale, map[string]string{
		"5101": "Venda de produção do estabelecimento",
		"5102": "Venda de mercadoria adquirida ou recebida de terceiros",
		"5103": "Venda de produção do estabelecimento, efetuada fora do estabelecimento",
		"5104": "Venda de mercadoria adquirida ou recebida de terceiros, efetuada fora do estabelecimento",
		"5105": "Venda de produção do estabelecimento que não deva por ele transitar",
		"5106": "Venda de mercadoria adquirida ou recebida de terceiros, que não deva por ele transitar",
		"5109": "Venda de produção do estabelecimento, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"5110": "Venda de mercadoria adquirida ou recebida de terceiros, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"5111": "Venda de produção do estabelecimento remetida anteriormente em consignação industrial",
		"5112": "Venda de mercadoria adquirida ou recebida de terceiros remetida anteriormente em consignação industrial",
		"5113": "Venda de produção do estabelecimento remetida anteriormente em consignação mercantil",
		"5114": "Venda de mercadoria adquirida ou recebida de terceiros remetida anteriormente em consignação mercantil",
		"5115": "Venda de mercadoria adquirida ou recebida de terceiros, recebida anteriormente em consignação mercantil",
		"5116": "Venda de produção do estabelecimento originada de encomenda para entrega futura",
		"5117": "Venda de mercadoria adquirida ou recebida de terceiros, originada de encomenda para entrega futura",
		"5118": "Venda de produção do estabelecimento entregue ao destinatário por conta e ordem do adquirente originário, em venda à ordem",
		"5119": "Venda de mercadoria adquirida ou recebida de terceiros entregue ao destinatário por conta e ordem do adquirente originário, em venda à ordem",
		"5120": "Venda de mercadoria adquirida ou recebida de terceiros entregue ao destinatário pelo vendedor remetente, em venda à ordem",
		"5122": "Venda de produção do estabelecimento remetida para industrialização, por conta e ordem do adquirente",
		"5123": "Venda de mercadoria adquirida ou recebida de terceiros remetida para industrialização, por conta e ordem do adquirente",
		"5124": "Industrialização efetuada para outra empresa",
		"5401": "Venda de produção do estabelecimento em operação com produto sujeito ao regime de substituição tributária, na condição de contribuinte substituto",
		"5402": "Venda de produção do estabelecimento de produto sujeito ao regime de substituição tributária, em operação entre contribuintes substitutos do mesmo produto",
		"5403": "Venda de mercadoria adquirida ou recebida de terceiros em operação com mercadoria sujeita ao regime de substituição tributária, na condição de contribuinte substituto",
		"5405": "Venda de mercadoria adquirida ou recebida de terceiros em operação com mercadoria sujeita ao regime de substituição tributária, na condição de contribuinte substituído",
		"5551": "Venda de bem do ativo imobilizado",
		"5656": "Venda de combustível ou lubrificante adquirido ou recebido de terceiros destinado a consumidor ou usuário final",
		"6101": "Venda de produção do estabelecimento",
		"6102": "Venda de mercadoria adquirida ou recebida de terceiros",
		"6103": "Venda de produção do estabelecimento, efetuada fora do estabelecimento",
		"6104": "Venda de mercadoria adquirida ou recebida de terceiros, efetuada fora do estabelecimento",
		"6105": "Venda de produção do estabelecimento que não deva por ele transitar",
		"6106": "Venda de mercadoria adquirida ou recebida de terceiros, que não deva por ele transitar",
		"6107": "Venda de produção do estabelecimento, destinada a não contribuinte",
		"6108": "Venda de mercadoria adquirida ou recebida de terceiros, destinada a não contribuinte",
		"6109": "Venda de produção do estabelecimento, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"6110": "Venda de mercadoria adquirida ou recebida de terceiros, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"6116": "Venda de produção do estabelecimento originada de encomenda para entrega futura",
		"6117": "Venda de mercadoria adquirida ou recebida de terceiros, originada de encomenda para entrega futura",
		"6118": "Venda de produção do estabelecimento entregue ao destinatário por conta e ordem do adquirente originário, em venda à ordem",
		"6119": "Venda de mercadoria adquirida ou recebida de terceiros entregue ao destinatário por conta e ordem do adquirente originário, em venda à ordem",
		"6120": "Venda de mercadoria adquirida ou recebida de terceiros entregue ao destinatário pelo vendedor remetente, em venda à ordem",
		"6122": "Venda de produção do estabelecimento remetida para industrialização, por conta e ordem do adquirente",
		"6123": "Venda de mercadoria adquirida ou recebida de terceiros remetida para industrialização, por conta e ordem do adquirente",
		"6124": "Industrialização efetuada para outra empresa",
		"6401": "Venda de produção do estabelecimento em operação com produto sujeito ao regime de substituição tributária, na condição de contribuinte substituto",
		"6402": "Venda de produção do estabelecimento de produto sujeito ao regime de substituição tributária, em operação entre contribuintes substitutos do mesmo produto",
		"6403": "Venda de mercadoria adquirida ou recebida de terceiros em operação com mercadoria sujeita ao regime de substituição tributária, na condição de contribuinte substituto",
		"6404": "Venda de mercadoria sujeita ao regime de substituição tributária, cujo imposto já tenha sido retido anteriormente",
		"6551": "Venda de bem do ativo imobilizado",
		"7101": "Venda de produção do estabelecimento",
		"7102": "Venda de mercadoria adquirida ou recebida de terceiros",
		"7105": "Venda de produção do estabelecimento, que não deva por ele transitar",
		"7106": "Venda de mercadoria adquirida ou recebida de terceiros, que não deva por ele transitar",
		"7127": "Venda de produção do estabelecimento sob o regime de drawback",
	})

	register(CategoryReturn, map[string]string{
		"1201": "Devolução de venda de produção do estabelecimento",
		"1202": "Devolução de venda de mercadoria adquirida ou recebida de terceiros",
		"1203": "Devolução de venda de produção do estabelecimento, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"1204": "Devolução de venda de mercadoria adquirida ou recebida de terceiros, destinada à Zona Franca de Manaus ou Áreas de Livre Comércio",
		"1410": "Devolução de venda de produção do estabelecimento em operação com produto sujeito ao regime de substituição tributária",
		"1411": "Devolução de venda de mercadoria adquirida ou recebida de terceiros em operação com mercadoria sujeita ao regime de substituição tributária",
		"1553": "Devolução de venda de bem do ativo imobilizado",
		"2201": "Devolução de venda de produção do estabelecimento",
		"2202": "Devolução de venda de mercadoria adquirida ou recebida de terceiros",
		"2410": "Devolução de venda de produção do estabelecimento em operação com produto sujeito ao regime de substituição tributária",
		"2411": "Devolução de venda de mercadoria adquirida ou recebida de terceiros em operação com mercadoria sujeita ao regime de substituição tributária",
		"2553": "Devolução de venda de bem do ativo imobilizado",
		"3201": "Devolução de venda de produção do estabelecimento",
		"3202": "Devolução de venda de mercadoria adquirida ou recebida de terceiros",
		"3211": "Devolução de venda de produção do estabelecimento sob o regime de drawback",
		"5201": "Devolução de compra para industrialização ou produção rural",
		"5202": "Devolução de compra para comercialização",
		"5410": "Devolução de compra para industrialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"5411": "Devolução de compra para comercialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"5553": "Devolução de compra de bem para o ativo imobilizado",
		"5556": "Devolução de compra de material de uso ou consumo",
		"6201": "Devolução de compra para industrialização ou produção rural",
		"6202": "Devolução de compra para comercialização",
		"6410": "Devolução de compra para industrialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"6411": "Devolução de compra para comercialização em operação com mercadoria sujeita ao regime de substituição tributária",
		"6553": "Devolução de compra de bem para o ativo imobilizado",
		"6556": "Devolução de compra de material de uso ou consumo",
		"7201": "Devolução de compra para industrialização ou produção rural",
		"7202": "Devolução de compra para comercialização",
		"7211": "Devolução de compras para industrialização sob o regime de drawback",
	})

	register(CategoryOther, map[string]string{
		"1352": "Aquisição de serviço de transporte por estabelecimento industrial",
		"1353": "Aquisição de serviço de transporte por estabelecimento comercial",
		"1910": "Entrada de bonificação, doação ou brinde",
		"1915": "Entrada de mercadoria ou bem recebido para conserto ou reparo",
		"1949": "Outra entrada de mercadoria ou prestação de serviço não especificada",
		"2353": "Aquisição de serviço de transporte por estabelecimento comercial",
		"2949": "Outra entrada de mercadoria ou prestação de serviço não especificada",
		"5351": "Prestação de serviço de transporte para execução de serviço da mesma natureza",
		"5352": "Prestação de serviço de transporte a estabelecimento industrial",
		"5353": "Prestação de serviço de transporte a estabelecimento comercial",
		"5354": "Prestação de serviço de transporte a estabelecimento de prestador de serviço de comunicação",
		"5355": "Prestação de serviço de transporte a estabelecimento de geradora ou de distribuidora de energia elétrica",
		"5356": "Prestação de serviço de transporte a estabelecimento de produtor rural",
		"5357": "Prestação de serviço de transporte a não contribuinte",
		"5910": "Remessa em bonificação, doação ou brinde",
		"5915": "Remessa de mercadoria ou bem para conserto ou reparo",
		"5929": "Lançamento efetuado em decorrência de emissão de documento fiscal relativo a operação ou prestação também registrada em equipamento Emissor de Cupom Fiscal - ECF",
		"5933": "Prestação de serviço tributado pelo ISSQN",
		"5949": "Outra saída de mercadoria ou prestação de serviço não especificado",
		"6351": "Prestação de serviço de transporte para execução de serviço da mesma natureza",
		"6352": "Prestação de serviço de transporte a estabelecimento industrial",
		"6353": "Prestação de serviço de transporte a estabelecimento comercial",
		"6357": "Prestação de serviço de transporte a não contribuinte",
		"6910": "Remessa em bonificação, doação ou brinde",
		"6915": "Remessa de mercadoria ou bem para conserto ou reparo",
		"6933": "Prestação de serviço tributado pelo ISSQN",
		"6949": "Outra saída de mercadoria ou prestação de serviço não especificado",
		"7358": "Prestação de serviço de transporte",
		"7949": "Outra saída de mercadoria ou prestação de serviço não especificado",
	})
}

// NormalizeCFOP strips non-digits and left-pads to 4 digits.
// Empty input stays empty.
func NormalizeCFOP(code string) string {
	digits := OnlyDigits(code)
	if digits == "" {
		return ""
	}
	if len(digits) < 4 {
		digits = strings.Repeat("0", 4-len(digits)) + digits
	}
	return digits
}

// LookupCFOP finds a code in the CFOP table
func LookupCFOP(code string) (CFOP, bool) {
	row, ok := cfopTable[NormalizeCFOP(code)]
	return row, ok
}

// ClassifyCFOP maps a CFOP to its category: unknown for empty input,
// other for codes absent from the table
func ClassifyCFOP(code string) Category {
	normalized := NormalizeCFOP(code)
	if normalized == "" {
		return CategoryUnknown
	}
	if row, ok := cfopTable[normalized]; ok {
		return row.Category
	}
	return CategoryOther
}

// OnlyDigits removes every non-digit character
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
