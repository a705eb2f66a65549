package catalogue

import "strings"

// 上游导出文件（Sellsy）的列名
const (
	FieldID          = "ID Produit Sellsy"
	FieldName        = "Nom commercial"
	FieldReference   = "Référence"
	FieldCategory    = "Catégorie"
	FieldUnit        = "Unité"
	FieldDescription = "Description"
	FieldLink        = "lien"
	FieldImage       = "image"
)

// DefaultName is shown wherever a product has no commercial name.
const DefaultName = "Produit sans nom"

// TariffFields lists the price columns in the order they are displayed.
var TariffFields = []string{
	"Tarif -20%",
	"Tarif -35%",
	"Tarif -40%",
	"Tarif 10%",
	"Tarif plein",
	"Prix référence HT",
}

type Tariff struct {
	Label string
	Value string
}

type Product struct {
	// 记录在源文件中的起始行号
	Line   int               `json:"line"`
	Fields map[string]string `json:"fields"`

	// 由 ingest 阶段分配，整个运行期内唯一
	Filename string `json:"filename"`
}

func (p Product) Get(field string) string {
	if p.Fields == nil {
		return ""
	}
	return strings.TrimSpace(p.Fields[field])
}

func (p Product) ID() string          { return p.Get(FieldID) }
func (p Product) Name() string        { return p.Get(FieldName) }
func (p Product) Reference() string   { return p.Get(FieldReference) }
func (p Product) Category() string    { return p.Get(FieldCategory) }
func (p Product) Unit() string        { return p.Get(FieldUnit) }
func (p Product) Description() string { return p.Get(FieldDescription) }
func (p Product) Link() string        { return p.Get(FieldLink) }
func (p Product) Image() string       { return p.Get(FieldImage) }

func (p Product) DisplayName() string {
	if n := p.Name(); n != "" {
		return n
	}
	return DefaultName
}

func (p Product) Tariffs() []Tariff {
	var out []Tariff
	for _, f := range TariffFields {
		if v := p.Get(f); v != "" {
			out = append(out, Tariff{Label: f, Value: v})
		}
	}
	return out
}

// Normalize trims every value in place and drops nothing; absent fields
// already read as "".
func (p *Product) Normalize() {
	for k, v := range p.Fields {
		p.Fields[k] = strings.TrimSpace(v)
	}
}

// IsBlank reports whether every cell of a raw row is empty after trimming.
func IsBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
