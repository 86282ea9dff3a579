package cli

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/tracker"
)

func newLoginCommand(app *App) *cobra.Command {
	var asAdmin bool

	cmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Войти (запоминает текущего пользователя)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.RoleEmployee
			if asAdmin {
				role = models.RoleAdmin
			}
			employee, err := app.Services.Auth.Login(args[0], args[1], role)
			if err != nil {
				return err
			}
			printf(cmd, "Вы вошли как %s (%s)\n", employee.Name, employee.Role)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asAdmin, "admin", false, "войти как администратор")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выйти",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Services.Auth.Logout(); err != nil {
				return err
			}
			printf(cmd, "Вы вышли из системы\n")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}
			printf(cmd, "%s <%s>\nРоль: %s\nОтдел: %s\nС нами с: %s\n",
				employee.Name, employee.Email, employee.Role, employee.Department, employee.JoinDate)
			return nil
		},
	}
}

func newCheckInCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Отметить приход",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}
			record, err := app.Services.Attendance.CheckIn(employee)
			if err != nil {
				return err
			}
			printf(cmd, "Приход отмечен: %s %s\n", record.Date, record.CheckIn)
			return nil
		},
	}
}

func newCheckOutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Отметить уход",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}
			record, err := app.Services.Attendance.CheckOut(employee)
			if err != nil {
				return err
			}
			printf(cmd, "Уход отмечен: %s %s-%s, %v ч\n", record.Date, record.CheckIn, record.CheckOut, record.WorkingHours)
			return nil
		},
	}
}

// newTrackCommand ведет учет активности, пока открыт ввод: каждая строка - нажатие клавиши.
// Завершается по концу ввода или по Ctrl+C.
func newTrackCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Учет активности (каждая строка ввода - событие активности)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}

			t := tracker.New(employee.ID, app.Repos.Activity, app.Clock, app.Tracker)
			if err := t.Start(); err != nil {
				return err
			}
			printf(cmd, "Учет активности начат. Вводите что угодно, Ctrl+C или конец ввода - завершить.\n")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lines := make(chan struct{})
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					select {
					case lines <- struct{}{}:
					case <-ctx.Done():
						return
					}
				}
			}()

			readInput(ctx, lines, func() {
				if err := t.RecordActivity(tracker.KeyPress); err != nil {
					printf(cmd, "Не удалось сохранить активность: %v\n", err)
				}
			})

			if err := t.Stop(); err != nil {
				return err
			}

			if session, ok := t.Session(); ok {
				printf(cmd, "Сессия: %s, продуктивно: %s, простой: %s\n",
					models.FormatMinutes(session.TotalSessionMinutes),
					models.FormatMinutes(session.ProductiveMinutes),
					models.FormatMinutes(session.TotalIdleMinutes))
			}
			return nil
		},
	}
}

func readInput(ctx context.Context, lines <-chan struct{}, onLine func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-lines:
			if !ok {
				return
			}
			onLine()
		}
	}
}
