package experiment

import (
	"math"

	"github.com/aristath/grouprep/internal/circuit"
	"github.com/aristath/grouprep/internal/group"
	"gonum.org/v1/gonum/mat"
)

// matrixTol is the entrywise tolerance for identity and equality claims.
const matrixTol = 1e-9

// Matrix is a product of representation matrices rounded to integers.
type Matrix struct {
	Expr       string  `json:"expr" msgpack:"expr"`
	Entries    [][]int `json:"entries" msgpack:"entries"`
	IsIdentity bool    `json:"is_identity" msgpack:"is_identity"`
}

// MatrixBlock is one printed claim, such as "U(ab)=U(ba)!=1", with the
// matrices that back it. Holds reports whether the unrounded matrices
// agree with the claim.
type MatrixBlock struct {
	Label          string   `json:"label" msgpack:"label"`
	ExpectIdentity bool     `json:"expect_identity" msgpack:"expect_identity"`
	Matrices       []Matrix `json:"matrices" msgpack:"matrices"`
	Holds          bool     `json:"holds" msgpack:"holds"`
}

type product struct {
	expr string
	m    *mat.CDense
}

// Matrices evaluates the representation at p and returns the claims in
// print order.
func Matrices(p group.Params) []MatrixBlock {
	ua, ub, uc := group.Representation(p)
	uc2 := circuit.Mul(uc, uc)

	blocks := []struct {
		label    string
		identity bool
		products []product
	}{
		{"U(a)!=1", false, []product{{"Ua", ua}}},
		{"U(a^2)=1", true, []product{{"Ua·Ua", circuit.Mul(ua, ua)}}},
		{"U(b)!=1", false, []product{{"Ub", ub}}},
		{"U(b^2)=1", true, []product{{"Ub·Ub", circuit.Mul(ub, ub)}}},
		{"U(c)!=1", false, []product{{"Uc", uc}}},
		{"U(c^2)!=1", false, []product{{"Uc·Uc", uc2}}},
		{"U(c^4)=1", true, []product{{"Uc·Uc·Uc·Uc", circuit.Mul(uc2, uc2)}}},
		{"U(ab)=U(ba)!=1", false, []product{{"Ua·Ub", circuit.Mul(ua, ub)}, {"Ub·Ua", circuit.Mul(ub, ua)}}},
		{"U(ac)=U(ca)!=1", false, []product{{"Ua·Uc", circuit.Mul(ua, uc)}, {"Uc·Ua", circuit.Mul(uc, ua)}}},
	}

	id := circuit.Identity(4)
	out := make([]MatrixBlock, 0, len(blocks))
	for _, b := range blocks {
		block := MatrixBlock{Label: b.label, ExpectIdentity: b.identity, Holds: true}
		for i, pr := range b.products {
			isID := mat.CEqualApprox(pr.m, id, matrixTol)
			block.Matrices = append(block.Matrices, Matrix{
				Expr:       pr.expr,
				Entries:    roundEntries(pr.m),
				IsIdentity: isID,
			})
			if isID != b.identity {
				block.Holds = false
			}
			if i > 0 && !mat.CEqualApprox(pr.m, b.products[0].m, matrixTol) {
				block.Holds = false
			}
		}
		out = append(out, block)
	}
	return out
}

// roundEntries rounds the real parts to the nearest integer. Rounding
// rather than truncating keeps values like 0.9999999 at 1.
func roundEntries(m *mat.CDense) [][]int {
	r, c := m.Dims()
	out := make([][]int, r)
	for i := range out {
		out[i] = make([]int, c)
		for j := range out[i] {
			out[i][j] = int(math.Round(real(m.At(i, j))))
		}
	}
	return out
}
