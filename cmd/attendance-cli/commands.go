// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/google"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// Output formats.
const (
	outputJSON  = "json"
	outputTable = "table"
)

// serviceFactory builds the attendance service used by every command.
type serviceFactory func(ctx context.Context) (*service.AttendanceService, error)

// newAttendanceService builds the service from the GOOGLE_* environment.
// The CLI never writes the migration ledger.
func newAttendanceService(ctx context.Context) (*service.AttendanceService, error) {
	timeout := google.DefaultClientTimeout
	if raw := os.Getenv("GOOGLE_API_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}
	batchSize := constants.DefaultMigrationBatchSize
	if raw := os.Getenv("MIGRATION_BATCH_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			batchSize = n
		}
	}

	client, err := google.NewClient(ctx, google.Config{
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ImpersonateSubject: os.Getenv("GOOGLE_IMPERSONATE_SUBJECT"),
		AccessToken:        os.Getenv("GOOGLE_ACCESS_TOKEN"),
		FormsBaseURL:       os.Getenv("GOOGLE_FORMS_BASE_URL"),
		DriveBaseURL:       os.Getenv("GOOGLE_DRIVE_BASE_URL"),
		Timeout:            timeout,
	})
	if err != nil {
		return nil, err
	}
	return service.NewAttendanceService(
		google.NewFormsClient(client),
		google.NewDriveClient(client),
		nil,
		service.ServiceConfig{MigrationBatchSize: batchSize},
	), nil
}

func newRootCmd(factory serviceFactory, out io.Writer) *cobra.Command {
	var output string

	rootCmd := &cobra.Command{
		Use:           "attendance-cli",
		Short:         "Inspect, migrate and close meeting attendance forms",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if output != outputJSON && output != outputTable {
				return fmt.Errorf("unsupported output format %q", output)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputJSON, "Output format (json, table)")

	printer := func(cmd *cobra.Command, v any) error {
		if output == outputTable {
			return printTable(cmd.OutOrStdout(), v)
		}
		return printJSON(cmd.OutOrStdout(), v)
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "catalog",
			Short: "List every attendance form, migrating legacy forms",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := factory(cmd.Context())
				if err != nil {
					return err
				}
				entries, err := svc.GetCatalog(cmd.Context())
				if err != nil {
					return err
				}
				return printer(cmd, entries)
			},
		},
		formCmd("responses <form-id>", "Show the normalized responses of a form", factory, printer,
			func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error) {
				return svc.GetResponses(ctx, formID)
			}),
		formCmd("summary <form-id>", "Show the response and attendee counts of a form", factory, printer,
			func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error) {
				return svc.GetSummary(ctx, formID)
			}),
		formCmd("status <form-id>", "Show whether a form accepts responses", factory, printer,
			func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error) {
				return svc.GetStatus(ctx, formID)
			}),
		formCmd("close <form-id>", "Stop a form from accepting responses", factory, printer,
			func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error) {
				return svc.Close(ctx, formID)
			}),
		formCmd("migrate <form-id>", "Migrate a form from title tags to file properties", factory, printer,
			func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error) {
				return svc.Migrate(ctx, formID)
			}),
	)

	return rootCmd
}

// formCmd builds a command operating on a single form id.
func formCmd(
	use, short string,
	factory serviceFactory,
	printer func(*cobra.Command, any) error,
	run func(ctx context.Context, svc *service.AttendanceService, formID string) (any, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			result, err := run(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			return printer(cmd, result)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders the known result types as aligned columns. Other types
// fall back to JSON.
func printTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch result := v.(type) {
	case []models.CatalogEntry:
		fmt.Fprintln(tw, "ID\tTITLE\tACCEPTING\tMIGRATED\tMODIFIED")
		for _, e := range result {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", e.ID, e.Title, accepting(e.AcceptingResponses), e.Migrated, e.ModifiedTime.Format(time.RFC3339))
		}
	case []models.AttendanceRecord:
		fmt.Fprintln(tw, "RESPONSE\tORGANIZATION\tATTENDANCE\tCOUNT\tNAME\tROLE\tREMARKS")
		for _, r := range result {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n", r.ResponseID, r.Organization, r.Attendance, r.Count, r.Name, r.Role, r.Remarks)
		}
	case *models.Summary:
		fmt.Fprintln(tw, "RESPONSES\tATTENDEES")
		fmt.Fprintf(tw, "%d\t%d\n", result.ResponseCount, result.AttendeeCount)
	case *models.FormState:
		fmt.Fprintln(tw, "ID\tTITLE\tACCEPTING\tURL")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", result.FormID, result.Title, accepting(result.AcceptingResponses), result.URL)
	default:
		return printJSON(w, v)
	}

	return tw.Flush()
}

func accepting(v *bool) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatBool(*v)
}
