package stencil_test

import (
	"fmt"

	"github.com/katalvlaran/hpccg/stencil"
)

// ExampleGenerate builds a single-process 3×3×3 problem and inspects the
// center row and a corner row.
func ExampleGenerate() {
	p, err := stencil.Generate(3, 3, 3, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("rows:", p.A.RowCount())
	fmt.Println("center nnz:", p.A.NnzInRow(13), "b:", p.B[13])
	fmt.Println("corner nnz:", p.A.NnzInRow(0), "b:", p.B[0])
	// Output:
	// rows: 27
	// center nnz: 27 b: 1
	// corner nnz: 8 b: 20
}
