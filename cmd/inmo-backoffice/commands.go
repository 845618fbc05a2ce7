package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inmo-backoffice/internal/app"
	"inmo-backoffice/internal/appearance"
	"inmo-backoffice/internal/config"
	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/logger"
	"inmo-backoffice/internal/report"
	"inmo-backoffice/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// billingPeriod renders the period label receipts are filed under, e.g. "Marzo 2025".
func billingPeriod(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// withApp loads config, builds the app and runs fn against it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "inmo-backoffice")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dashboardCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the administrator dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				today := time.Now()
				if period == "" {
					period = billingPeriod(today)
				}
				return writeJSON(cmd.OutOrStdout(), a.Dashboard.Dashboard(ctx, period, today))
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", "", `billing period label (default: current month, e.g. "Marzo 2025")`)
	return cmd
}

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview <tenant-id>",
		Short: "Print a tenant's account overview as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Dashboard.TenantOverview(ctx, args[0], time.Now())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), o)
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the delinquents, receipts and expirations workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				view := a.Dashboard.Dashboard(ctx, billingPeriod(time.Now()), time.Now())
				data, err := report.Workbook(report.Input{
					Delinquents: view.Delinquents,
					Receipts:    a.Receipts.List(ctx, service.ReceiptFilter{}),
					Expirations: view.Expirations,
				})
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "inmo-report.xlsx", "output file")
	return cmd
}

func escalateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escalate",
		Short: "Notify the guarantor of every tenant in serious default",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				notices := a.Notifications.EscalateAll(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s  %-24s  %-16s  %10s  %4s\n", "Tenant", "Name", "Guarantor Phone", "Debt", "Days")
				for _, n := range notices {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s  %-24s  %-16s  %10d  %4d\n", n.TenantID, n.TenantName, n.Phone, n.Amount, n.DaysLate)
				}
				return nil
			})
		},
	}
}

func expireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "End every active contract past its end date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				ended, err := a.Leases.ExpireLeases(ctx, time.Now())
				for _, c := range ended {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  ended %s\n", c.ID, c.FolioNumber, c.EndDate.Format(time.DateOnly))
				}
				return err
			})
		},
	}
}

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Review payment receipts",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List receipts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return writeJSON(cmd.OutOrStdout(), a.Receipts.List(ctx, service.ReceiptFilter{Status: domain.ReceiptStatus(status)}))
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "pending | approved | rejected")

	approve := &cobra.Command{
		Use:   "approve <receipt-id>",
		Short: "Approve a pending receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Receipts.Approve(ctx, args[0], a.Config.Agency.ReviewerName)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), r)
			})
		},
	}

	var reason string
	reject := &cobra.Command{
		Use:   "reject <receipt-id>",
		Short: "Reject a pending receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Receipts.Reject(ctx, args[0], a.Config.Agency.ReviewerName, reason)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), r)
			})
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "rejection reason shown to the tenant")
	_ = reject.MarkFlagRequired("reason")

	cmd.AddCommand(list, approve, reject)
	return cmd
}

func ticketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Maintenance tickets",
	}

	var open bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List tickets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return writeJSON(cmd.OutOrStdout(), a.Tickets.List(ctx, service.TicketFilter{OpenOnly: open}))
			})
		},
	}
	list.Flags().BoolVar(&open, "open", false, "only tickets that are not resolved")

	advance := &cobra.Command{
		Use:   "advance <ticket-id> <in-progress|awaiting-quote>",
		Short: "Move a ticket forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				tk, err := a.Tickets.Advance(ctx, args[0], domain.TicketStatus(args[1]))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tk)
			})
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <ticket-id>",
		Short: "Mark a ticket resolved by the agency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				tk, err := a.Tickets.Resolve(ctx, args[0], domain.ResolvedByAgent)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tk)
			})
		},
	}

	cmd.AddCommand(list, advance, resolve)
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored collection; the next start reloads seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Store.Reset(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d keys\n", n)
				return nil
			})
		},
	}
}

func appearanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appearance",
		Short: "Color-scheme preference",
	}

	var initialDark bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print the resolved scheme on every change until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Appearance(ctx, initialDark)
				if err != nil {
					return err
				}
				defer r.Close()

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (preference %s)\n", scheme(r.IsDark()), r.Preference())
				stop := r.Watch(func(dark bool) { fmt.Fprintln(out, scheme(dark)) })
				defer stop()

				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
				defer signal.Stop(sigChan)
				select {
				case sig := <-sigChan:
					a.Logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
				case <-ctx.Done():
				}
				return nil
			})
		},
	}
	watch.Flags().BoolVar(&initialDark, "host-dark", false, "host scheme assumed until the first signal arrives")

	set := &cobra.Command{
		Use:   "set <light|dark|system>",
		Short: "Store the appearance preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Appearance(ctx, false)
				if err != nil {
					return err
				}
				defer r.Close()
				if err := r.SetPreference(ctx, domain.AppearancePreference(args[0])); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), scheme(r.IsDark()))
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Flip the resolved scheme and store it as an explicit preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Appearance(ctx, initialDark)
				if err != nil {
					return err
				}
				defer r.Close()
				dark, err := r.Toggle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), scheme(dark))
				return nil
			})
		},
	}
	toggle.Flags().BoolVar(&initialDark, "host-dark", false, "host scheme used when the preference is system")

	publish := &cobra.Command{
		Use:   "publish <dark|light>",
		Short: "Publish a host color-scheme signal to the MQTT topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.MQTT == nil {
					return fmt.Errorf("MQTT is disabled, set MQTT_ENABLED=true")
				}
				if _, err := appearance.ParseScheme([]byte(args[0])); err != nil {
					return err
				}
				return a.MQTT.Publish(a.Config.Appearance.Topic, a.Config.MQTT.QoS, true, []byte(args[0]))
			})
		},
	}

	cmd.AddCommand(watch, set, toggle, publish)
	return cmd
}

func scheme(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
