package excel

import (
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

func TestExtractEmptySheet(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	data := r.ExtractProposal()
	if len(data) != len(models.Fields()) {
		t.Fatalf("expected %d fields, got %d", len(models.Fields()), len(data))
	}
	for field, v := range data {
		if !v.IsEmpty() {
			t.Errorf("field %s = %v on an empty sheet, expected empty", field, v)
		}
	}
}

func TestExtractWithoutSelection(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "C2", "Acme Corp")
	})

	data := r.ExtractProposal()
	for field, v := range data {
		if !v.IsEmpty() {
			t.Errorf("field %s = %v without a selected sheet, expected empty", field, v)
		}
	}
}

func TestExtractEndToEnd(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		// Client name inside the positional window, insurance label
		// with its value in the adjacent cell.
		f.SetCellValue("Sheet1", "C2", "Acme Corp")
		f.SetCellValue("Sheet1", "B40", "SEGURO")
		f.SetCellValue("Sheet1", "C40", "Incluído")
	})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	data := r.ExtractProposal()
	if got := data.Get(models.FieldNomeCliente); got.Text != "Acme Corp" {
		t.Errorf("nome_cliente = %v, expected 'Acme Corp'", got)
	}
	if got := data.Get(models.FieldSeguro); got.Text != "Incluído" {
		t.Errorf("seguro = %v, expected 'Incluído'", got)
	}

	for _, field := range models.Fields() {
		if field == models.FieldNomeCliente || field == models.FieldSeguro {
			continue
		}
		if v := data.Get(field); !v.IsEmpty() {
			t.Errorf("field %s = %v, expected empty", field, v)
		}
	}
}

func TestExtractCostWindow(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "B45", "CUSTO FINAL")
		// Below the plausibility threshold: skipped.
		f.SetCellValue("Sheet1", "C44", 800)
		f.SetCellValue("Sheet1", "C45", 125000.5)
		f.SetCellValue("Sheet1", "A50", "fim")
	})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	got := r.ExtractProposal().Get(models.FieldCusto)
	if got.Kind != models.Number || got.Number != 125000.5 {
		t.Errorf("custo = %v, expected number 125000.5", got)
	}
}

func TestExtractCostIgnoresNumbersOutsideWindow(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		// A large number near the top is outside the near-the-end
		// window and must not be picked up as the cost.
		f.SetCellValue("Sheet1", "E2", 999999)
		for row := 11; row <= 60; row++ {
			f.SetCellValue("Sheet1", "A"+strconv.Itoa(row), "linha de madeira serrada")
		}
	})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	if got := r.ExtractProposal().Get(models.FieldCusto); !got.IsEmpty() {
		t.Errorf("custo = %v, expected empty", got)
	}
}

func TestExtractLabelOffset(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "B20", "Contato")
		f.SetCellValue("Sheet1", "C20", "Maria Silva")
		// Label present but adjacent cell empty: field stays empty,
		// no fallthrough to guessing.
		f.SetCellValue("Sheet1", "B21", "Garantia")
	})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	data := r.ExtractProposal()
	if got := data.Get(models.FieldNomeContato); got.Text != "Maria Silva" {
		t.Errorf("nome_contato = %v, expected 'Maria Silva'", got)
	}
	if got := data.Get(models.FieldGarantias); !got.IsEmpty() {
		t.Errorf("garantias = %v, expected empty", got)
	}
}

func TestExtractAllScenarios(t *testing.T) {
	r := newTestWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "C2", "Cliente Alfa")
		f.NewSheet("Cenário B")
		f.SetCellValue("Cenário B", "C2", "Cliente Beta")
	})
	if !r.SelectSheet("Sheet1") {
		t.Fatal("SelectSheet failed")
	}

	scenarios := r.ExtractAllScenarios()
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
	if got := scenarios["Sheet1"].Get(models.FieldNomeCliente).Text; got != "Cliente Alfa" {
		t.Errorf("Sheet1 nome_cliente = %q", got)
	}
	if got := scenarios["Cenário B"].Get(models.FieldNomeCliente).Text; got != "Cliente Beta" {
		t.Errorf("Cenário B nome_cliente = %q", got)
	}

	// The previous selection is restored afterwards.
	if r.CurrentSheet() != "Sheet1" {
		t.Errorf("current sheet = %q after ExtractAllScenarios, expected Sheet1", r.CurrentSheet())
	}
}

func TestResolveRange(t *testing.T) {
	tests := []struct {
		bounds   [2]int
		max      int
		lo, hi   int
	}{
		{[2]int{1, 10}, 50, 1, 10},
		{[2]int{1, 10}, 5, 1, 5},
		{[2]int{-20, -1}, 50, 31, 50},
		{[2]int{-20, -1}, 10, 1, 10},
	}
	for _, tt := range tests {
		lo, hi := resolveRange(tt.bounds, tt.max)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("resolveRange(%v, %d) = (%d, %d), expected (%d, %d)",
				tt.bounds, tt.max, lo, hi, tt.lo, tt.hi)
		}
	}
}
