package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gohealthalbania/booking-api/cmd/bookingctl/cmds"
	"github.com/gohealthalbania/booking-api/internal/logger"
)

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer cancelSignal()

	logger.InitSlog()

	if err := cmds.Execute(ctx); err != nil {
		logger.Logger.Error(err.Error())
		os.Exit(1)
	}
}
