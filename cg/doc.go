// Package cg runs the unpreconditioned conjugate-gradient iteration of the
// benchmark on a distributed stencil operator and times each kernel.
//
// Iteration (k = 1 … maxIter-1, stopping once ‖r‖ ≤ tolerance):
//
//	p  = x0, Ap = A·p, r = b - Ap, ρ = r·r
//	k == 1: p = r
//	k  > 1: ρ' = ρ, ρ = r·r, p = r + (ρ/ρ')·p
//	Ap = A·p          (halo exchange + local product)
//	α  = ρ / (p·Ap)
//	x  = x + α·p,  r = r - α·Ap
//
// Every dot product is local work plus one sum allreduce, so all ranks
// must call Solve together.
package cg
