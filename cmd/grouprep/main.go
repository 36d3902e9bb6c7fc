// Package main is the entry point for grouprep, which searches for a
// faithful two-qubit representation of a finite group presented by the
// relations a² = b² = c⁴ = (bc)² = (ab)² = ac³ac = 1.
//
// The default command trains a representation with CMA-ES, checks it next
// to the recorded and analytic solutions, and prints the θ = 0 matrices.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/grouprep/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The root command may fail before its logger exists.
		log := logger.New(logger.Config{Level: "error", Pretty: true})
		log.Error().Err(err).Msg("grouprep failed")
		stop()
		os.Exit(1)
	}
}
