package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/sheets"
)

var (
	sheetSpreadsheetID   string
	sheetCredentialsFile string
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Manage the Google Sheets storage backend",
}

var sheetSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the form tabs and style their header rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "sheetSetupCmd")
		defer span.End()

		span.SetAttributes(attribute.String("spreadsheetId", sheetSpreadsheetID))

		// Store construction already adds missing tabs and header rows.
		if _, err := sheets.New(ctx, sheetSpreadsheetID, sheetCredentialsFile); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to prepare spreadsheet")
			return err
		}

		svc, err := sheetsapi.NewService(ctx,
			option.WithCredentialsFile(sheetCredentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to create sheets service")
			return fmt.Errorf("failed to create sheets service: %w", err)
		}

		meta, err := svc.Spreadsheets.Get(sheetSpreadsheetID).Context(ctx).Do()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch spreadsheet metadata")
			return fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
		}

		tabIDs := make(map[string]int64, len(meta.Sheets))
		for _, sh := range meta.Sheets {
			tabIDs[sh.Properties.Title] = sh.Properties.SheetId
		}

		var requests []*sheetsapi.Request
		for _, form := range []store.FormType{store.FormDental, store.FormCheckup} {
			tabID, ok := tabIDs[sheets.TabName(form)]
			if !ok {
				return fmt.Errorf("tab %q missing after setup", sheets.TabName(form))
			}
			requests = append(requests, headerFormatRequests(tabID, len(store.Columns(form)))...)
		}

		_, err = svc.Spreadsheets.BatchUpdate(sheetSpreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to style header rows")
			return fmt.Errorf("failed to style header rows: %w", err)
		}

		logger.Logger.InfoContext(ctx, "spreadsheet ready", "spreadsheetId", sheetSpreadsheetID)

		span.SetStatus(codes.Ok, "spreadsheet ready")
		return nil
	},
}

// headerFormatRequests bolds the header row on a blue background, freezes it,
// and auto-sizes the columns.
func headerFormatRequests(tabID int64, columns int) []*sheetsapi.Request {
	return []*sheetsapi.Request{
		{
			RepeatCell: &sheetsapi.RepeatCellRequest{
				Range: &sheetsapi.GridRange{
					SheetId:          tabID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheetsapi.CellData{
					UserEnteredFormat: &sheetsapi.CellFormat{
						BackgroundColor: &sheetsapi.Color{Red: 0.2, Green: 0.5, Blue: 0.9},
						TextFormat: &sheetsapi.TextFormat{
							Bold:            true,
							ForegroundColor: &sheetsapi.Color{Red: 1.0, Green: 1.0, Blue: 1.0},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
		{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId:        tabID,
					GridProperties: &sheetsapi.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			AutoResizeDimensions: &sheetsapi.AutoResizeDimensionsRequest{
				Dimensions: &sheetsapi.DimensionRange{
					SheetId:    tabID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
	}
}

func init() {
	sheetSetupCmd.Flags().
		StringVar(&sheetSpreadsheetID, "spreadsheet-id", "", "ID of the target spreadsheet")
	sheetSetupCmd.Flags().
		StringVar(&sheetCredentialsFile, "credentials-file", "", "Path to a service account credentials file")
	for _, flag := range []string{"spreadsheet-id", "credentials-file"} {
		if err := sheetSetupCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark %s required: %v", flag, err))
		}
	}

	sheetCmd.AddCommand(sheetSetupCmd)
	rootCmd.AddCommand(sheetCmd)
}
