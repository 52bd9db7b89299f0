// Package propositional parses a prefix-notation propositional formula
// ("and"/"or"/"not" applied to named variables) and converts it to CNF via
// Tseitin's transformation. It is grounded on original_source/formula2cnf.py:
// the same recursive-descent tokenizer, the same per-node auxiliary-variable
// numbering scheme, and the same clause shapes (with tautology avoidance and
// an implications-only mode).
package propositional

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kdhart/cdclsat/internal/sat"
)

type op int

const (
	opLeaf op = iota
	opAnd
	opOr
)

// node mirrors formula2cnf.py's Node: a leaf carries a signed 1-indexed
// variable id (negative means negated); an internal node carries the
// Tseitin auxiliary variable id assigned to it plus its two operands.
type node struct {
	op    op
	varID int
	left  *node
	right *node
}

// Formula is a parsed propositional formula together with the variable
// bookkeeping needed to map named variables back and forth to solver
// literals.
type Formula struct {
	root *node

	// names maps each original (non-auxiliary) variable name to its
	// 1-indexed variable id, in the order load_formula's dict would have
	// assigned them.
	names map[string]int
	// auxiliary lists the 1-indexed ids minted for "and"/"or" nodes.
	auxiliary []int
	// nextID is the next 1-indexed id to mint, matching the Python
	// implementation's len(variables)+1 counter (which counts both named
	// and auxiliary entries).
	nextID int
}

// RootVariable returns the 1-indexed variable id assigned to the formula's
// root node — the literal that must be asserted true for the formula itself
// to hold.
func (f *Formula) RootVariable() int { return f.root.varID }

// OriginalVariables returns the name-to-id mapping for variables that
// appeared in the source formula (excluding Tseitin auxiliaries).
func (f *Formula) OriginalVariables() map[string]int {
	out := make(map[string]int, len(f.names))
	for k, v := range f.names {
		out[k] = v
	}
	return out
}

// AuxiliaryVariables returns the 1-indexed ids minted for internal "and"/
// "or" nodes, in minting order.
func (f *Formula) AuxiliaryVariables() []int {
	return append([]int(nil), f.auxiliary...)
}

// NumVariables is the total number of distinct variables (original plus
// auxiliary) used by the formula.
func (f *Formula) NumVariables() int { return f.nextID - 1 }

func tokenize(r io.Reader) ([]string, error) {
	replacer := strings.NewReplacer("(", " ", ")", " ")
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tokens = append(tokens, strings.Fields(replacer.Replace(scanner.Text()))...)
	}
	return tokens, scanner.Err()
}

// tokenStream is a simple cursor over the token slice, mirroring the
// Python generator passed to load_formula.
type tokenStream struct {
	tokens []string
	pos    int
}

func (s *tokenStream) next() (string, error) {
	if s.pos >= len(s.tokens) {
		return "", fmt.Errorf("unexpected end of formula")
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, nil
}

// Parse reads a prefix-notation formula ("and"/"or"/"not" forms nested over
// alphanumeric variable names) from r.
func Parse(r io.Reader) (*Formula, error) {
	tokens, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	f := &Formula{names: map[string]int{}, nextID: 1}
	root, err := f.loadFormula(&tokenStream{tokens: tokens})
	if err != nil {
		return nil, err
	}
	f.root = root
	return f, nil
}

func (f *Formula) variableNode(name string, negated bool) (*node, error) {
	if name == "" || !isAlphaNumName(name) {
		return nil, fmt.Errorf("invalid variable name %q", name)
	}
	id, ok := f.names[name]
	if !ok {
		id = f.nextID
		f.nextID++
		f.names[name] = id
	}
	if negated {
		id = -id
	}
	return &node{op: opLeaf, varID: id}, nil
}

func isAlphaNumName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (f *Formula) loadFormula(tokens *tokenStream) (*node, error) {
	tok, err := tokens.next()
	if err != nil {
		return nil, err
	}

	switch tok {
	case "not":
		name, err := tokens.next()
		if err != nil {
			return nil, err
		}
		return f.variableNode(name, true)
	case "and", "or":
		auxID := f.nextID
		f.nextID++
		f.auxiliary = append(f.auxiliary, auxID)

		left, err := f.loadFormula(tokens)
		if err != nil {
			return nil, err
		}
		right, err := f.loadFormula(tokens)
		if err != nil {
			return nil, err
		}

		o := opAnd
		if tok == "or" {
			o = opOr
		}
		return &node{op: o, varID: auxID, left: left, right: right}, nil
	default:
		return f.variableNode(tok, false)
	}
}

// Clauses performs the Tseitin transformation and returns the resulting CNF
// as solver literals (0-indexed, via sat.PositiveLiteral/sat.NegativeLiteral);
// the total variable count is given by NumVariables. When implicationsOnly is true, only the
// left-to-right implication ("node implies its definition") half of each
// equivalence is emitted, producing a weaker (but smaller) encoding that is
// still satisfiability-preserving for the root-true query.
func (f *Formula) Clauses(implicationsOnly bool) [][]sat.Literal {
	var raw [][3]int // each entry is a signed-variable clause; unused slots hold 0
	extractClauses(f.root, implicationsOnly, &raw)

	clauses := make([][]sat.Literal, 0, len(raw))
	for _, c := range raw {
		lits := make([]sat.Literal, 0, 3)
		for _, v := range c {
			if v == 0 {
				continue
			}
			lits = append(lits, literalFromSigned(v))
		}
		clauses = append(clauses, lits)
	}
	return clauses
}

func literalFromSigned(v int) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(-v - 1)
	}
	return sat.PositiveLiteral(v - 1)
}

// extractClauses walks the tree exactly as formula2cnf.py's extract_clauses
// does, appending the implication clauses (and, unless implicationsOnly, the
// reverse-implication clauses) for every internal node.
func extractClauses(n *node, implicationsOnly bool, out *[][3]int) {
	if n.op == opLeaf {
		return
	}

	if n.op == opOr {
		if n.left.varID != -n.right.varID { // avoid a tautological clause
			*out = append(*out, [3]int{-n.varID, n.left.varID, n.right.varID})
		}
	} else {
		*out = append(*out, [3]int{-n.varID, n.left.varID, 0})
		*out = append(*out, [3]int{-n.varID, n.right.varID, 0})
	}

	if !implicationsOnly {
		if n.op == opOr {
			*out = append(*out, [3]int{-n.left.varID, n.varID, 0})
			*out = append(*out, [3]int{-n.right.varID, n.varID, 0})
		} else if n.left.varID != -n.right.varID {
			*out = append(*out, [3]int{-n.left.varID, -n.right.varID, n.varID})
		}
	}

	extractClauses(n.left, implicationsOnly, out)
	extractClauses(n.right, implicationsOnly, out)
}
