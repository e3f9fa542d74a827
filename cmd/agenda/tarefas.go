package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"agendafacil/internal/cache"
	"agendafacil/internal/clock"
	"agendafacil/internal/model"
	"agendafacil/internal/tarefa"
	"agendafacil/internal/view"
)

const (
	dayLayout      = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

func listCmd(cfgPath *string) *cobra.Command {
	var (
		dataFlag     string
		offlineFlag  bool
		calendarFlag bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tarefas, optionally filtered to one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*cfgPath)
			if err != nil {
				return err
			}

			var selected *time.Time
			if dataFlag != "" {
				d, err := time.ParseInLocation(dayLayout, dataFlag, time.Local)
				if err != nil {
					return fmt.Errorf("--data must be YYYY-MM-DD: %w", err)
				}
				selected = &d
			}

			tarefas, err := loadOrSnapshot(cmd.Context(), app, offlineFlag)
			if err != nil {
				return err
			}

			if calendarFlag {
				month := app.clock.Now()
				if selected != nil {
					month = *selected
				}
				printMonth(cmd.OutOrStdout(), tarefas, month)
				fmt.Fprintln(cmd.OutOrStdout())
			}

			printTarefas(cmd.OutOrStdout(), view.Project(tarefas, selected))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFlag, "data", "", "filter to one day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&offlineFlag, "offline", false, "fall back to the last snapshot if the server is unreachable")
	cmd.Flags().BoolVar(&calendarFlag, "calendar", false, "print a month calendar with task markers")
	return cmd
}

func addCmd(cfgPath *string) *cobra.Command {
	var (
		descFlag   string
		inicioFlag string
		fimFlag    string
		diasFlag   []string
	)
	cmd := &cobra.Command{
		Use:   "add <nome>",
		Short: "Create a tarefa, or a weekly batch with --dias",
		Long: `Create a single tarefa, or one instance per weekday when --dias is given.

With --dias, --inicio/--fim take a time of day (HH:MM, defaults 09:00-10:00);
without it they take a date and time (YYYY-MM-DDTHH:MM).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*cfgPath)
			if err != nil {
				return err
			}

			in := tarefa.SaveInput{
				Tarefa: model.Tarefa{
					Nome:      args[0],
					Descricao: descFlag,
					Status:    model.StatusPendente,
				},
			}

			if len(diasFlag) > 0 {
				dias, err := parseDias(diasFlag)
				if err != nil {
					return err
				}
				in.DiasDaSemana = dias
				in.HorarioInicio = inicioFlag
				in.HorarioFim = fimFlag
			} else {
				inicio, fim, err := parseWindow(inicioFlag, fimFlag)
				if err != nil {
					return err
				}
				in.Tarefa.HorarioInicio = inicio
				in.Tarefa.HorarioFim = fim
			}

			if err := app.store.Submit(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&descFlag, "desc", "", "description")
	cmd.Flags().StringVar(&inicioFlag, "inicio", "", "start (YYYY-MM-DDTHH:MM, or HH:MM with --dias)")
	cmd.Flags().StringVar(&fimFlag, "fim", "", "end (YYYY-MM-DDTHH:MM, or HH:MM with --dias)")
	cmd.Flags().StringSliceVar(&diasFlag, "dias", nil, "weekdays to repeat on (monday,wednesday,...)")
	return cmd
}

func doneCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a tarefa between Pendente and Concluída",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, id, err := appWithLoadedID(*cfgPath, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.store.ToggleStatus(cmd.Context(), id); err != nil {
				return err
			}
			t, _ := app.store.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "tarefa %d: %s\n", id, t.Status)
			return nil
		},
	}
}

func rmCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tarefa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, id, err := appWithLoadedID(*cfgPath, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tarefa %d removed\n", id)
			return nil
		},
	}
}

func checkCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <tarefa-id> <item-id>",
		Short: "Toggle one checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, id, err := appWithLoadedID(*cfgPath, cmd, args[0])
			if err != nil {
				return err
			}
			itemID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("item id must be numeric: %w", err)
			}
			return app.store.ToggleChecklistItem(cmd.Context(), id, itemID)
		},
	}
}

func exportCmd(cfgPath *string) *cobra.Command {
	var dataFlag string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one day's tarefas as iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			day := clock.Today(app.clock)
			if dataFlag != "" {
				d, err := time.ParseInLocation(dayLayout, dataFlag, time.Local)
				if err != nil {
					return fmt.Errorf("--data must be YYYY-MM-DD: %w", err)
				}
				day = d
			}
			if err := app.store.Load(cmd.Context()); err != nil {
				return err
			}
			ics, err := view.BuildDayICS(app.store.Tarefas(), day, app.clock.Now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ics)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFlag, "data", "", "day to export (YYYY-MM-DD, default today)")
	return cmd
}

func appWithLoadedID(cfgPath string, cmd *cobra.Command, rawID string) (*app, model.TaskID, error) {
	app, err := newApp(cfgPath)
	if err != nil {
		return nil, 0, err
	}
	n, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("id must be numeric: %w", err)
	}
	if err := app.store.Load(cmd.Context()); err != nil {
		return nil, 0, err
	}
	return app, model.TaskID(n), nil
}

// loadOrSnapshot loads from the authority, updating the snapshot on
// success; with offline enabled, an unreachable authority falls back to the
// last snapshot instead of failing.
func loadOrSnapshot(ctx context.Context, app *app, offline bool) ([]model.Tarefa, error) {
	err := app.store.Load(ctx)
	if err == nil {
		tarefas := app.store.Tarefas()
		if werr := cache.Write(app.cfg.Sync.SnapshotFile, tarefas, app.clock.Now()); werr != nil {
			app.logger.WithError(werr).Warn("snapshot write failed")
		}
		return tarefas, nil
	}
	if !offline || tarefa.IsAuthError(err) {
		return nil, err
	}

	snap, rerr := cache.Read(app.cfg.Sync.SnapshotFile)
	if rerr != nil {
		if errors.Is(rerr, os.ErrNotExist) {
			return nil, err
		}
		return nil, rerr
	}
	app.logger.WithError(err).Warnf("using snapshot from %s", snap.SavedAt.Format(time.RFC3339))
	return snap.Tarefas, nil
}

func parseDias(raw []string) ([]model.Weekday, error) {
	out := make([]model.Weekday, 0, len(raw))
	for _, r := range raw {
		d := model.Weekday(strings.ToUpper(strings.TrimSpace(r)))
		if !d.Valid() {
			return nil, fmt.Errorf("unknown weekday %q", r)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseWindow(inicio, fim string) (*time.Time, *time.Time, error) {
	if inicio == "" && fim == "" {
		return nil, nil, nil
	}
	if inicio == "" || fim == "" {
		return nil, nil, fmt.Errorf("--inicio and --fim must be given together")
	}
	start, err := time.ParseInLocation(dateTimeLayout, inicio, time.Local)
	if err != nil {
		return nil, nil, fmt.Errorf("--inicio must be YYYY-MM-DDTHH:MM: %w", err)
	}
	end, err := time.ParseInLocation(dateTimeLayout, fim, time.Local)
	if err != nil {
		return nil, nil, fmt.Errorf("--fim must be YYYY-MM-DDTHH:MM: %w", err)
	}
	return &start, &end, nil
}

func printTarefas(w io.Writer, tarefas []model.Tarefa) {
	if len(tarefas) == 0 {
		fmt.Fprintln(w, "no tarefas")
		return
	}
	for _, t := range tarefas {
		mark := " "
		if t.Concluida() {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %4d  %s", mark, t.ID, t.Nome)
		if t.HorarioInicio != nil && t.HorarioFim != nil {
			line += fmt.Sprintf("  (%s %s-%s)",
				t.HorarioInicio.Local().Format("02/Jan"),
				t.HorarioInicio.Local().Format("15:04"),
				t.HorarioFim.Local().Format("15:04"))
		}
		if t.Status == model.StatusEmAndamento {
			line += "  [em andamento]"
		}
		fmt.Fprintln(w, line)
		for _, item := range t.ChecklistItems {
			im := " "
			if item.Concluido {
				im = "x"
			}
			fmt.Fprintf(w, "      [%s] %d %s\n", im, item.ID, item.Texto)
		}
	}
}

// printMonth renders the month containing ref, marking days that have at
// least one tarefa.
func printMonth(w io.Writer, tarefas []model.Tarefa, ref time.Time) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.Local)
	fmt.Fprintf(w, "     %s %d\n", first.Month(), first.Year())
	fmt.Fprintln(w, "Su Mo Tu We Th Fr Sa")

	line := strings.Repeat("   ", int(first.Weekday()))
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", day.Day())
		if view.MarksDay(tarefas, day, view.ViewMonth) {
			cell += "*"
		} else {
			cell += " "
		}
		line += cell
		if day.Weekday() == time.Saturday {
			fmt.Fprintln(w, strings.TrimRight(line, " "))
			line = ""
		}
	}
	if strings.TrimSpace(line) != "" {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
