package reference

import "strconv"

// NCM is a merchandise classification lookup result
type NCM struct {
	Code        string `json:"code"`
	Chapter     string `json:"chapter"`
	Section     string `json:"section"`
	Description string `json:"description,omitempty"`
	Known       bool   `json:"known"`
}

// ncmSection is a range of HS chapters sharing a section title
type ncmSection struct {
	first, last int
	title       string
}

var ncmSections = []ncmSection{
	{1, 5, "Animais vivos e produtos do reino animal"},
	{6, 14, "Produtos do reino vegetal"},
	{15, 15, "Gorduras e óleos animais ou vegetais"},
	{16, 24, "Produtos das indústrias alimentares, bebidas e tabaco"},
	{25, 27, "Produtos minerais"},
	{28, 38, "Produtos das indústrias químicas"},
	{39, 40, "Plásticos e borracha"},
	{41, 43, "Peles, couros e suas obras"},
	{44, 46, "Madeira, carvão vegetal e cortiça"},
	{47, 49, "Pastas de madeira, papel e suas obras"},
	{50, 63, "Matérias têxteis e suas obras"},
	{64, 67, "Calçados, chapéus e artefatos semelhantes"},
	{68, 70, "Obras de pedra, cerâmica e vidro"},
	{71, 71, "Pérolas, pedras preciosas e metais preciosos"},
	{72, 83, "Metais comuns e suas obras"},
	{84, 85, "Máquinas, aparelhos e material elétrico"},
	{86, 89, "Material de transporte"},
	{90, 92, "Instrumentos de óptica, precisão e música"},
	{93, 93, "Armas e munições"},
	{94, 96, "Mercadorias e produtos diversos"},
	{97, 97, "Objetos de arte, de coleção e antiguidades"},
}

var ncmKnown = map[string]string{
	"02013000": "Carnes desossadas de bovino, frescas ou refrigeradas",
	"04012010": "Leite UHT",
	"09012100": "Café torrado, não descafeinado",
	"10063021": "Arroz beneficiado, polido ou brunido",
	"17019900": "Açúcar refinado",
	"19059090": "Produtos de padaria e pastelaria",
	"22021000": "Águas, incluindo as águas minerais, adicionadas de açúcar",
	"22030000": "Cervejas de malte",
	"27101259": "Gasolina automotiva",
	"30049099": "Medicamentos",
	"33051000": "Xampus",
	"39241000": "Serviços de mesa e outros utensílios de mesa ou de cozinha, de plástico",
	"48025610": "Papel de impressão",
	"49019900": "Livros, brochuras e impressos semelhantes",
	"61091000": "Camisetas de malha, de algodão",
	"64039990": "Calçados com sola exterior de borracha e parte superior de couro",
	"84713012": "Computadores portáteis",
	"84714900": "Máquinas automáticas para processamento de dados",
	"85171231": "Telefones celulares portáteis",
	"85285200": "Monitores",
	"87032310": "Automóveis de passageiros",
	"94036000": "Móveis de madeira",
}

// NormalizeNCM strips punctuation such as in "2203.00.00"
func NormalizeNCM(code string) string {
	return OnlyDigits(code)
}

// ValidNCMFormat reports whether the code has exactly 8 digits
func ValidNCMFormat(code string) bool {
	return len(NormalizeNCM(code)) == 8
}

// LookupNCM resolves a code to its chapter and section. A code is
// recognized when its format is valid and its chapter exists in the
// HS nomenclature (01 to 97, chapter 77 reserved).
func LookupNCM(code string) (NCM, bool) {
	digits := NormalizeNCM(code)
	if len(digits) != 8 {
		return NCM{Code: digits}, false
	}

	chapter, err := strconv.Atoi(digits[:2])
	if err != nil {
		return NCM{Code: digits}, false
	}
	if chapter < 1 || chapter > 97 || chapter == 77 {
		return NCM{Code: digits, Chapter: digits[:2]}, false
	}

	result := NCM{Code: digits, Chapter: digits[:2], Known: true}
	for _, s := range ncmSections {
		if chapter >= s.first && chapter <= s.last {
			result.Section = s.title
			break
		}
	}
	result.Description = ncmKnown[digits]
	return result, true
}
