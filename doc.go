// Package hpccg is a distributed conjugate-gradient benchmark: a 27-point
// stencil operator on a 3D grid, split into z-slabs across ranks, solved
// with unpreconditioned CG.
//
// What a run does on every rank:
//
//	• Generate its block of the operator, right-hand side and exact solution
//	• Resolve which off-rank columns it touches and agree with their owners
//	  on what to send and receive (a one-time handshake)
//	• Iterate CG, refreshing ghost values before every sparse product
//	• Report kernel times, FLOP rates and the error against the exact solution
//
// Everything is organized under these packages:
//
//	comm/     in-process ranks: non-blocking receive, send, allreduce, barrier
//	sparse/   CSR blocks with global or local/ghost columns, the exchange plan
//	stencil/  operator and vector generation for one rank's subdomain
//	localize/ global-to-local column resolution and the request handshake
//	halo/     ghost refresh and the distributed sparse product (with overlap)
//	vector/   dot, scaled sum, residual and their global forms
//	cg/       the solver loop and its per-kernel timings
//	report/   FLOP accounting and the YAML summary
//	diag/     structured progress logging, rank 0 by default
//	parallel/ chunked loops over goroutines inside one rank
//	config/   YAML run configuration
//
// The hpccg command wires them together:
//
//	go run ./cmd/hpccg --ranks 4 20 30 10
package hpccg
