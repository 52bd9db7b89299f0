package dimacs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kdhart/cdclsat/internal/sat"
)

type recorder struct {
	nVars   int
	clauses [][]sat.Literal
}

func (r *recorder) AddVariable() int {
	v := r.nVars
	r.nVars++
	return v
}

func (r *recorder) AddClause(lits []sat.Literal) error {
	r.clauses = append(r.clauses, append([]sat.Literal(nil), lits...))
	return nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ParsesVariablesAndClauses(t *testing.T) {
	path := writeTemp(t, "instance.cnf", "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n")

	r := &recorder{}
	if err := Load(path, false, r); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if r.nVars != 3 {
		t.Errorf("got %d variables, want 3", r.nVars)
	}
	if len(r.clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(r.clauses))
	}
	want0 := []sat.Literal{sat.PositiveLiteral(0), sat.NegativeLiteral(1)}
	if r.clauses[0][0] != want0[0] || r.clauses[0][1] != want0[1] {
		t.Errorf("got first clause %v, want %v", r.clauses[0], want0)
	}
}

func TestLoad_NoFile(t *testing.T) {
	r := &recorder{}
	if err := Load(filepath.Join(t.TempDir(), "missing.cnf"), false, r); err == nil {
		t.Errorf("Load: want error, got none")
	}
}

func TestLoadModels_ParsesOneModelPerLine(t *testing.T) {
	path := writeTemp(t, "instance.cnf.models", "1 -2 3 0\n-1 2 -3 0\n")

	models, err := LoadModels(path)
	if err != nil {
		t.Fatalf("LoadModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	want := Model{true, false, true}
	for i, b := range want {
		if models[0][i] != b {
			t.Errorf("model[0][%d] = %v, want %v", i, models[0][i], b)
		}
	}
}

func TestWriteDIMACS_RoundTripsThroughLoad(t *testing.T) {
	clauses := [][]sat.Literal{
		{sat.PositiveLiteral(0), sat.NegativeLiteral(1)},
		{sat.PositiveLiteral(1), sat.PositiveLiteral(2)},
	}

	path := filepath.Join(t.TempDir(), "out.cnf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := WriteDIMACS(f, 3, clauses); err != nil {
		t.Fatalf("WriteDIMACS: %v", err)
	}
	f.Close()

	r := &recorder{}
	if err := Load(path, false, r); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.nVars != 3 || len(r.clauses) != 2 {
		t.Fatalf("got nVars=%d clauses=%d, want 3 and 2", r.nVars, len(r.clauses))
	}
}
