package cmds

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

const name = "github.com/gohealthalbania/booking-api/cmd/bookingctl/cmds"

var tracer = otel.Tracer(name)

var rootCmd = &cobra.Command{
	Use:           "bookingctl",
	Short:         "Operator tooling for the booking API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
