package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"regdesk/internal/app"
	"regdesk/internal/registration/admin"
	"regdesk/internal/registration/service"
	dErrors "regdesk/pkg/domain-errors"
)

func schemesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the enabled schemes and their record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := flags.openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tID PREFIX\tAGES\tRECORDS")
			for _, e := range a.Engines() {
				table, err := e.Admin(ctx)
				if err != nil {
					return err
				}
				info := e.Info()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\t%d\n", info.Slug, info.Title, info.IDPrefix, info.MinAge, info.MaxAge, table.Total)
			}
			return tw.Flush()
		},
	}
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <scheme>",
		Short: "Export a scheme's registrations as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := flags.openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			engine, err := engineFor(a, args[0])
			if err != nil {
				return err
			}
			export, err := engine.Export(ctx, format)
			if err != nil {
				return err
			}
			if export.Empty() {
				fmt.Fprintln(cmd.ErrOrStderr(), export.Message)
				return nil
			}

			switch output {
			case "-":
				_, err = cmd.OutOrStdout().Write(export.Body)
				return err
			case "":
				output = export.Filename
			}
			if err := os.WriteFile(output, export.Body, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", export.Message, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", admin.FormatCSV, "export format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default generated name)`)
	return cmd
}

func purgeCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <scheme>",
		Short: "Delete every registration of a scheme and reset its numbering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := flags.openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			engine, err := engineFor(a, args[0])
			if err != nil {
				return err
			}
			cleared, err := engine.Clear(ctx, yes)
			if dErrors.HasCode(err, dErrors.CodeConfirmationRequired) {
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), dErrors.MessageOf(err)) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
					return nil
				}
				cleared, err = engine.Clear(ctx, true)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cleared.Message)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func engineFor(a *app.App, slug string) (*service.Engine, error) {
	engine, ok := a.Engine(slug)
	if !ok {
		return nil, fmt.Errorf("unknown or disabled scheme %q", slug)
	}
	return engine, nil
}

// confirm asks prompt on out and reads a yes/no answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
