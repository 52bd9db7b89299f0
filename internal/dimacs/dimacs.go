// Package dimacs adapts the DIMACS CNF file format to the solver's
// [sat.Solver]. It is a thin wrapper over github.com/rhartert/dimacs's
// streaming builder, grounded on the teacher repository's
// parsers/parsers.go: the external library does the token scanning, this
// package only translates DIMACS integers into [sat.Literal]s and feeds a
// writer.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	extdimacs "github.com/rhartert/dimacs"

	"github.com/kdhart/cdclsat/internal/sat"
)

// Writer is satisfied by anything that can receive a CNF instance as it is
// parsed — in practice a *sat.Solver, but kept as an interface so tests can
// substitute a recording fake.
type Writer interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Load parses the DIMACS CNF file at filename and loads its formula into w,
// one AddVariable call per declared variable and one AddClause call per
// clause line.
func Load(filename string, gzipped bool, w Writer) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	return extdimacs.ReadBuilder(r, &builder{w: w})
}

// builder adapts a Writer to the extdimacs.Builder callback interface.
type builder struct {
	w Writer
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instances of type %q are not supported", problem)
	}
	for i := 0; i < nVars; i++ {
		b.w.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	return b.w.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil
}

// Model is a satisfying assignment read back from a ".cnf.models" reference
// file, indexed the same way as a DIMACS clause line (one signed integer per
// variable, space separated, terminated by 0).
type Model []bool

// LoadModels parses a reference models file (one model per line, DIMACS
// literal encoding, used only by tests to check solver output against
// precomputed reference solutions).
func LoadModels(filename string) ([]Model, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := extdimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

type modelBuilder struct {
	models []Model
}

func (b *modelBuilder) Problem(_ string, _ int, _ int) error {
	return fmt.Errorf("model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make(Model, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

// WriteDIMACS writes nVars variables and clauses out in DIMACS CNF format,
// the inverse of Load, used by the Tseitin encoder to emit its output.
func WriteDIMACS(w io.Writer, nVars int, clauses [][]sat.Literal) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", nVars, len(clauses)); err != nil {
		return err
	}
	for _, c := range clauses {
		for _, l := range c {
			v := l.VarID() + 1
			if !l.IsPositive() {
				v = -v
			}
			if _, err := fmt.Fprintf(w, "%d ", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	return nil
}
