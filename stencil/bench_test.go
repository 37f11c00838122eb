package stencil_test

import (
	"testing"

	"github.com/katalvlaran/hpccg/stencil"
)

// BenchmarkGenerate measures assembly of a 32³ block.
func BenchmarkGenerate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := stencil.Generate(32, 32, 32, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerate_Workers4(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := stencil.Generate(32, 32, 32, nil, stencil.WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}
