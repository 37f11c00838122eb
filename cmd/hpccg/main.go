// SPDX-License-Identifier: MIT

// Command hpccg runs the conjugate-gradient benchmark on a 27-point (or
// 7-point) stencil operator, split into z-slabs over in-process ranks, and
// prints a YAML summary of times, FLOP rates and residuals.
//
//	hpccg 20 30 10
//	hpccg --ranks 4 --nx 16 --ny 16 --nz 16 --overlap --metrics
//	hpccg --config run.yaml --output summary.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(productionLogger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// productionLogger logs JSON to stderr at Info, or Debug when verbose.
// Debug also enables the per-entry matrix dump.
func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
