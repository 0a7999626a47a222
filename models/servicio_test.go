package models

import (
	"testing"
	"time"
)

func TestTiempoRestante(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	s := &Servicio{HoraInicio: inicio, DuracionMinutos: 60}

	if got := s.TiempoRestante(inicio); got != 3600 {
		t.Fatalf("expected 3600 at start, got %d", got)
	}
	if got := s.TiempoRestante(inicio.Add(20 * time.Minute)); got != 2400 {
		t.Fatalf("expected 2400 after 20m, got %d", got)
	}
	if got := s.TiempoRestante(inicio.Add(60 * time.Minute)); got != 0 {
		t.Fatalf("expected 0 at the limit, got %d", got)
	}
	if got := s.TiempoRestante(inicio.Add(2 * time.Hour)); got != 0 {
		t.Fatalf("expected 0 in overtime, got %d", got)
	}
}

func TestTiempoNegativo(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	s := &Servicio{HoraInicio: inicio, DuracionMinutos: 60}

	if got := s.TiempoNegativo(inicio.Add(30 * time.Minute)); got != 0 {
		t.Fatalf("expected no overtime mid-session, got %d", got)
	}
	if got := s.TiempoNegativo(inicio.Add(60 * time.Minute)); got != 0 {
		t.Fatalf("expected no overtime at the limit, got %d", got)
	}
	// 125 seconds past the end
	now := inicio.Add(60*time.Minute + 125*time.Second)
	if got := s.TiempoNegativo(now); got != 125 {
		t.Fatalf("expected 125s of overtime, got %d", got)
	}
	if got := s.TiempoRestante(now); got != 0 {
		t.Fatalf("expected 0 remaining in overtime, got %d", got)
	}
}

func TestTiempoRestanteCreceConExtension(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	s := &Servicio{HoraInicio: inicio, DuracionMinutos: 60}

	now := inicio.Add(60*time.Minute + 5*time.Minute)
	if got := s.TiempoNegativo(now); got != 300 {
		t.Fatalf("expected 300s of overtime before extension, got %d", got)
	}

	s.DuracionMinutos += 30
	if got := s.TiempoNegativo(now); got != 0 {
		t.Fatalf("expected overtime cleared after extension, got %d", got)
	}
	if got := s.TiempoRestante(now); got != 25*60 {
		t.Fatalf("expected 25m remaining after extension, got %d", got)
	}
}

func TestTotalRecomputadoDeLosLedgers(t *testing.T) {
	s := &Servicio{CostoBase: 150000}

	if got := s.Total(); got != 150000 {
		t.Fatalf("expected base-only total 150000, got %v", got)
	}

	s.Extensiones = append(s.Extensiones, ExtensionTiempo{Duracion: "30 minutos", Minutos: 30, Costo: 80000})
	if got := s.Total(); got != 230000 {
		t.Fatalf("expected 230000 after extension, got %v", got)
	}

	s.Adicionales = append(s.Adicionales, Adicional{Descripcion: "Propina", Costo: 20000})
	if got := s.Total(); got != 250000 {
		t.Fatalf("expected 250000 after add-on, got %v", got)
	}

	s.Consumos = append(s.Consumos, ConsumoDetalle{Descripcion: "Champaña", Costo: 15000, Cantidad: 2})
	if got := s.Total(); got != 280000 {
		t.Fatalf("expected 280000 after itemized consumption, got %v", got)
	}
}

func TestDuracionPorCategoria(t *testing.T) {
	cases := map[string]int{
		"30 minutos":   30,
		"1 hora":       60,
		"rato":         45,
		"varias horas": 180,
		"amanecida":    480,
	}
	for categoria, minutos := range cases {
		got, ok := DuracionPorCategoria[categoria]
		if !ok {
			t.Fatalf("missing category %q", categoria)
		}
		if got != minutos {
			t.Fatalf("category %q: expected %d minutes, got %d", categoria, minutos, got)
		}
	}
	if _, ok := DuracionPorCategoria["2 horas"]; ok {
		t.Fatalf("'2 horas' is an extension label, not a base category")
	}
}

func TestTarifasExtension(t *testing.T) {
	cases := map[string]ExtensionTarifa{
		"30 minutos": {Minutos: 30, Costo: 80000},
		"1 hora":     {Minutos: 60, Costo: 150000},
		"2 horas":    {Minutos: 120, Costo: 280000},
	}
	for etiqueta, want := range cases {
		got, ok := TarifasExtension[etiqueta]
		if !ok {
			t.Fatalf("missing extension %q", etiqueta)
		}
		if got != want {
			t.Fatalf("extension %q: expected %+v, got %+v", etiqueta, want, got)
		}
	}
}

func TestRequiereComprobante(t *testing.T) {
	if RequiereComprobante("Efectivo") {
		t.Fatalf("cash must not require a proof")
	}
	if RequiereComprobante("") {
		t.Fatalf("unset method must not require a proof")
	}
	for _, metodo := range []string{"QR", "Nequi", "Daviplata", "Datafono", "Convenio", "Tarjeta"} {
		if !RequiereComprobante(metodo) {
			t.Fatalf("method %q must require a proof", metodo)
		}
	}
}

func TestDescripcionConsumo(t *testing.T) {
	if got := DescripcionConsumo("Champaña", 2); got != "Champaña (x2)" {
		t.Fatalf("unexpected description: %q", got)
	}
}
