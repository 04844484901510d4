// Package config holds the static extraction and placeholder mappings.
// A Config is loaded once before any extraction or fill starts and is
// treated as immutable for the rest of the run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/tiendc/go-deepcopy"

	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

// Window is a row/column sub-range searched for a field when no
// label-based search applies. Negative bounds count back from the last
// row of the grid (-1 is the last row).
type Window struct {
	Rows [2]int `json:"row_range" mapstructure:"row_range"`
	Cols [2]int `json:"col_range" mapstructure:"col_range"`
}

// Offset is a label-relative cell offset for reading a field's value.
type Offset struct {
	Rows int `json:"rows" mapstructure:"rows"`
	Cols int `json:"cols" mapstructure:"cols"`
}

// FieldSpec describes how one field is located on a sheet: the
// case-insensitive label terms to search for, an optional default
// window for the positional heuristic, and where the value sits
// relative to a found label.
type FieldSpec struct {
	SearchTerms []string `json:"search_terms" mapstructure:"search_terms"`
	Window      *Window  `json:"default_position" mapstructure:"default_position"`
	ValueOffset *Offset  `json:"value_offset,omitempty" mapstructure:"value_offset"`
}

// Offset returns the label-relative value offset, defaulting to the
// cell one column to the right on the same row.
func (s FieldSpec) Offset() (rows, cols int) {
	if s.ValueOffset == nil {
		return 0, 1
	}
	return s.ValueOffset.Rows, s.ValueOffset.Cols
}

// Config is the full static mapping set: how each field is found on a
// spreadsheet and which placeholder spellings stand for it in a
// document template.
type Config struct {
	Fields       map[models.Field]FieldSpec `json:"excel_mappings" mapstructure:"excel_mappings"`
	Placeholders map[models.Field][]string  `json:"word_placeholders" mapstructure:"word_placeholders"`
}

var defaultConfig = Config{
	Fields: map[models.Field]FieldSpec{
		models.FieldNomeCliente: {
			SearchTerms: []string{"cliente", "empresa", "contratante"},
			Window:      &Window{Rows: [2]int{1, 10}, Cols: [2]int{1, 10}},
		},
		models.FieldNomeContato: {
			SearchTerms: []string{"contato", "responsável", "representante"},
		},
		models.FieldEmail: {
			SearchTerms: []string{"email", "e-mail", "correio eletrônico"},
		},
		models.FieldTelefone: {
			SearchTerms: []string{"telefone", "tel", "fone", "celular"},
		},
		models.FieldEscopo: {
			SearchTerms: []string{"escopo", "serviço", "objeto"},
		},
		models.FieldPrazo: {
			SearchTerms: []string{"prazo", "duração", "período"},
		},
		models.FieldCusto: {
			SearchTerms: []string{"custo", "valor", "preço", "total"},
			Window:      &Window{Rows: [2]int{-20, -1}, Cols: [2]int{1, 10}},
		},
		models.FieldGarantias: {
			SearchTerms: []string{"garantia"},
		},
		models.FieldSeguro: {
			SearchTerms: []string{"seguro"},
		},
		models.FieldNaoInclusos: {
			SearchTerms: []string{"não incluso", "não incluído"},
		},
	},
	Placeholders: map[models.Field][]string{
		models.FieldNomeCliente: {"{{CLIENTE}}", "{{NOME_CLIENTE}}"},
		models.FieldNomeContato: {"{{CONTATO}}", "{{NOME_CONTATO}}"},
		models.FieldEmail:       {"{{EMAIL}}", "{{E-MAIL}}"},
		models.FieldTelefone:    {"{{TELEFONE}}", "{{TEL}}"},
		models.FieldEscopo:      {"{{ESCOPO}}"},
		models.FieldPrazo:       {"{{PRAZO}}"},
		models.FieldCusto:       {"{{CUSTO}}", "{{VALOR}}", "{{PREÇO}}"},
		models.FieldGarantias:   {"{{GARANTIAS}}"},
		models.FieldSeguro:      {"{{SEGURO}}"},
		models.FieldNaoInclusos: {"{{NAO_INCLUSOS}}", "{{NÃO_INCLUSOS}}"},
	},
}

// Default returns the built-in mapping table. The result is a deep
// copy, so callers can never alias or mutate the package defaults.
func Default() *Config {
	var cfg Config
	if err := deepcopy.Copy(&cfg, &defaultConfig); err != nil {
		// The default table is copyable by construction.
		panic(fmt.Sprintf("config: copying defaults: %v", err))
	}
	return &cfg
}

// Load reads a JSON config file and overlays it on the defaults.
// A section present in the file replaces that section wholly; sections
// absent from the file keep their default content. A missing file is
// not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if loaded.Fields != nil {
		cfg.Fields = loaded.Fields
	}
	if loaded.Placeholders != nil {
		cfg.Placeholders = loaded.Placeholders
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating directories as
// needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every mapped field belongs to the closed field
// set and that declared windows are well-formed ranges.
func (c *Config) Validate() error {
	for f, spec := range c.Fields {
		if !f.Valid() {
			return fmt.Errorf("unknown field %q in excel mappings", f)
		}
		if w := spec.Window; w != nil {
			if err := validateRange("row", w.Rows); err != nil {
				return fmt.Errorf("field %q: %w", f, err)
			}
			if err := validateRange("col", w.Cols); err != nil {
				return fmt.Errorf("field %q: %w", f, err)
			}
		}
	}
	for f := range c.Placeholders {
		if !f.Valid() {
			return fmt.Errorf("unknown field %q in word placeholders", f)
		}
	}
	return nil
}

// validateRange rejects zero bounds (indices are 1-based, negatives
// count from the end) and inverted same-sign ranges.
func validateRange(what string, r [2]int) error {
	if r[0] == 0 || r[1] == 0 {
		return fmt.Errorf("%s range bound must not be zero", what)
	}
	sameSign := (r[0] > 0) == (r[1] > 0)
	if sameSign && r[0] > r[1] {
		return fmt.Errorf("%s range [%d, %d] is inverted", what, r[0], r[1])
	}
	return nil
}
