package cli

import (
	"github.com/spf13/cobra"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/service"
)

func newEmployeeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Сотрудники (администратор)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.currentAdmin()
			return err
		},
	}
	cmd.AddCommand(
		newEmployeeAddCommand(app),
		newEmployeeListCommand(app),
		newEmployeeUpdateCommand(app),
		newEmployeeDeleteCommand(app),
	)
	return cmd
}

func newEmployeeAddCommand(app *App) *cobra.Command {
	var input service.EmployeeInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить сотрудника",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.Services.Employees.AddEmployee(input)
			if err != nil {
				return err
			}
			printf(cmd, "Сотрудник добавлен: %s %s <%s>\n", employee.ID, employee.Name, employee.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Name, "name", "", "имя")
	flags.StringVar(&input.Email, "email", "", "email")
	flags.StringVar(&input.Department, "department", "Sales", "отдел")
	flags.StringVar(&input.Role, "role", models.RoleEmployee, "employee или admin")
	flags.StringVar(&input.JoinDate, "join-date", "", "дата приема ГГГГ-ММ-ДД (по умолчанию сегодня)")
	flags.StringVar(&input.Password, "password", "", "пароль (пустой - вход без пароля)")
	flags.IntVar(&input.TargetValue, "target", 0, "план по конверсиям на месяц")
	flags.Float64Var(&input.RevenueTarget, "revenue-target", 0, "план по выручке на месяц")
	return cmd
}

func newEmployeeListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список сотрудников",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range app.Services.Employees.ListEmployees() {
				printf(cmd, "%s  %-20s %-28s %-8s %-12s %s\n", e.ID, e.Name, e.Email, e.Role, e.Department, e.JoinDate)
			}
			return nil
		},
	}
}

func newEmployeeUpdateCommand(app *App) *cobra.Command {
	var (
		name, email, role, department, joinDate, password string
		target                                            int
		revenueTarget                                     float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить сотрудника и его план на текущий месяц",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var update service.EmployeeUpdate
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("email") {
				update.Email = &email
			}
			if flags.Changed("role") {
				update.Role = &role
			}
			if flags.Changed("department") {
				update.Department = &department
			}
			if flags.Changed("join-date") {
				update.JoinDate = &joinDate
			}
			if flags.Changed("password") {
				update.Password = &password
			}
			if flags.Changed("target") {
				update.TargetValue = &target
			}
			if flags.Changed("revenue-target") {
				update.RevenueTarget = &revenueTarget
			}

			employee, err := app.Services.Employees.UpdateEmployee(args[0], update)
			if err != nil {
				return err
			}
			printf(cmd, "Сотрудник обновлен: %s <%s>\n", employee.Name, employee.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "имя")
	flags.StringVar(&email, "email", "", "email")
	flags.StringVar(&role, "role", "", "employee или admin")
	flags.StringVar(&department, "department", "", "отдел")
	flags.StringVar(&joinDate, "join-date", "", "дата приема")
	flags.StringVar(&password, "password", "", "новый пароль")
	flags.IntVar(&target, "target", 0, "план по конверсиям")
	flags.Float64Var(&revenueTarget, "revenue-target", 0, "план по выручке")
	return cmd
}

func newEmployeeDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить сотрудника вместе с его данными",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Services.Employees.DeleteEmployee(args[0]); err != nil {
				return err
			}
			printf(cmd, "Сотрудник удален\n")
			return nil
		},
	}
}
