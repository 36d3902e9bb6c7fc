package group

import (
	"fmt"
	"strings"
)

// Word lists letters in application order: the first letter acts first,
// so Word("ab") realises U(b)·U(a).
type Word string

// Validate checks that w is non-empty and only uses a, b and c.
func (w Word) Validate() error {
	if len(w) == 0 {
		return ErrEmptyWord
	}
	for i := 0; i < len(w); i++ {
		if _, err := Letter(w[i]).offset(); err != nil {
			return fmt.Errorf("word %q position %d: %w", string(w), i, err)
		}
	}
	return nil
}

// Angles concatenates the letter angles of w in application order.
func (w Word) Angles(p Params) ([]float64, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	angles := make([]float64, 0, len(w)*4)
	for i := 0; i < len(w); i++ {
		l, _ := p.Letter(Letter(w[i]))
		angles = append(angles, l[:]...)
	}
	return angles, nil
}

// Power returns w repeated n times.
func (w Word) Power(n int) Word {
	return Word(strings.Repeat(string(w), n))
}

// Relation is a named word together with what it should evaluate to.
type Relation struct {
	Name string `json:"name" msgpack:"name"`
	Word Word   `json:"word" msgpack:"word"`
}

// IdentityRelations must all evaluate to the identity: a² = b² = c⁴ =
// (bc)² = (ab)² = 1 and a·c³·a·c = 1 (a commutes with c).
var IdentityRelations = []Relation{
	{Name: "a^2", Word: "aa"},
	{Name: "b^2", Word: "bb"},
	{Name: "c^4", Word: "cccc"},
	{Name: "(bc)^2", Word: "bcbc"},
	{Name: "(ab)^2", Word: "abab"},
	{Name: "ac^3ac", Word: "acccac"},
}

// FaithfulnessProbes are words that are not the identity in the group; a
// fidelity near 1 means the representation collapses them.
var FaithfulnessProbes = []Relation{
	{Name: "ab", Word: "ab"},
	{Name: "c^2", Word: "cc"},
}
