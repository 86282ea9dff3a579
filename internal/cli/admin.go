package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salestrack-bot/internal/export"
	"salestrack-bot/internal/service"
)

func newNotificationsCommand(app *App) *cobra.Command {
	var all, markRead bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Уведомления (администратор)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentAdmin(); err != nil {
				return err
			}

			list := app.Services.Notifications.List(!all)
			if len(list) == 0 {
				printf(cmd, "Новых уведомлений нет\n")
			}
			for _, n := range list {
				mark := " "
				if !n.Read {
					mark = "*"
				}
				printf(cmd, "%s %s  %-15s %s\n", mark, n.Timestamp.Format("2006-01-02 15:04"), n.Type, n.Message)
			}

			if markRead {
				return app.Services.Notifications.MarkAllRead()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "показать и прочитанные")
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "отметить все прочитанными")
	return cmd
}

func newExportCommand(app *App) *cobra.Command {
	var formatName, output string

	cmd := &cobra.Command{
		Use:   "export <employees|performances|attendance|leave>",
		Short: "Выгрузка в CSV или XLSX (администратор)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentAdmin(); err != nil {
				return err
			}

			kind, err := service.ParseExportKind(args[0])
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			if output == "-" {
				return app.Services.Export.Export(cmd.OutOrStdout(), kind, format)
			}
			if output == "" {
				output = kind.FileName(format)
			}
			return exportToFile(app, output, kind, format, cmd)
		},
	}
	cmd.Flags().StringVar(&formatName, "format", string(export.FormatCSV), "csv или xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "файл (по умолчанию <набор>.<формат>, - для stdout)")
	return cmd
}

func exportToFile(app *App, path string, kind service.ExportKind, format export.Format, cmd *cobra.Command) error {
	// пустой набор не должен оставлять пустой файл
	if _, err := app.Services.Export.Table(kind); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	exportErr := app.Services.Export.Export(f, kind, format)
	closeErr := f.Close()
	if err := errors.Join(exportErr, closeErr); err != nil {
		_ = os.Remove(path)
		return err
	}

	printf(cmd, "Выгрузка сохранена: %s\n", path)
	return nil
}

func newClearCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Удалить все данные (администратор)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentAdmin(); err != nil {
				return err
			}
			if !yes {
				return errors.New("это удалит все данные без возможности восстановления, подтвердите флагом --yes")
			}
			if err := app.Services.Employees.ClearAllData(); err != nil {
				return err
			}
			printf(cmd, "Все данные удалены\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "подтвердить удаление")
	return cmd
}

func newProfileCommand(app *App) *cobra.Command {
	var update service.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Изменить свой профиль",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("name") {
				update.Name = employee.Name
			}
			if !flags.Changed("email") {
				update.Email = employee.Email
			}
			if !flags.Changed("department") {
				update.Department = employee.Department
			}

			updated, err := app.Services.Employees.UpdateProfile(employee.ID, update)
			if err != nil {
				return err
			}
			printf(cmd, "Профиль обновлен: %s <%s>\n", updated.Name, updated.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&update.Name, "name", "", "имя")
	flags.StringVar(&update.Email, "email", "", "email")
	flags.StringVar(&update.Department, "department", "", "отдел")
	flags.StringVar(&update.NewPassword, "password", "", "новый пароль")
	flags.StringVar(&update.ConfirmPassword, "confirm", "", "повтор нового пароля")
	return cmd
}
