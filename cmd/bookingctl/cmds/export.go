package cmds

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/internal/config"
	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/csvfile"
	"github.com/gohealthalbania/booking-api/internal/store/sheets"
	"github.com/gohealthalbania/booking-api/internal/store/sqlite"
)

var (
	exportForm string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a form's submissions as CSV from the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "exportCmd")
		defer span.End()

		form, err := store.ParseFormType(exportForm)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unknown form type")
			return err
		}

		span.SetAttributes(attribute.String("formType", string(form)))

		cfg, err := config.GetConfig()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load config")
			return err
		}

		var st store.Store
		switch cfg.Storage.Backend {
		case "csv":
			st, err = csvfile.New(cfg.Storage.DataDir)
		case "sqlite":
			var s *sqlite.Store
			s, err = sqlite.Open(ctx, cfg.Storage.SQLitePath)
			if err == nil {
				defer s.Close()
				st = s
			}
		case "sheets":
			st, err = sheets.New(ctx, cfg.Storage.Sheets.SpreadsheetID, cfg.Storage.Sheets.CredentialsFile)
		default:
			err = fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to open record store")
			return err
		}

		data, err := st.ExportCSV(ctx, form)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to export submissions")
			return err
		}

		out := exportOut
		if out == "" {
			out = store.ExportFileName(form)
		}
		if out == "-" {
			_, err = os.Stdout.Write(data)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to write export")
				return err
			}

			span.SetStatus(codes.Ok, "exported submissions")
			return nil
		}

		if err := os.WriteFile(out, data, 0o640); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write export")
			return err
		}

		logger.Logger.InfoContext(ctx, "wrote export", "formType", form, "path", out, "store", st.Identifier())

		span.SetStatus(codes.Ok, "exported submissions")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportForm, "form", "", `"dental" or "checkup"`)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output path, - for stdout (default <form>_submissions.csv)")
	if err := exportCmd.MarkFlagRequired("form"); err != nil {
		panic(fmt.Sprintf("failed to mark form required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}
