package cli

import (
	"time"

	"github.com/spf13/cobra"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/service"
	"salestrack-bot/pkg/dates"
)

func newLogCommand(app *App) *cobra.Command {
	var input service.PerformanceInput

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Записать результаты за день",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}

			input.EmployeeID = employee.ID
			if input.Date == "" {
				input.Date = dates.Day(time.Now())
			}

			saved, err := app.Services.Performance.LogDaily(input)
			if err != nil {
				return err
			}
			printf(cmd, "%s: %d calls, %d conversions, %s revenue recorded.\n",
				saved.Date, saved.CallsMade, saved.LeadsConverted, models.FormatRevenue(saved.RevenueGenerated))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Date, "date", "", "дата ГГГГ-ММ-ДД (по умолчанию сегодня)")
	flags.IntVar(&input.CallsMade, "calls", 0, "звонков сделано")
	flags.IntVar(&input.LeadsContacted, "contacted", 0, "контактов")
	flags.IntVar(&input.LeadsConverted, "converted", 0, "конверсий")
	flags.Float64Var(&input.RevenueGenerated, "revenue", 0, "выручка")
	flags.Float64Var(&input.RevenuePending, "pending", 0, "ожидаемая выручка")
	return cmd
}

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Моя статистика",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}

			d := app.Services.Dashboard.ForEmployee(employee)
			printf(cmd, "%s, %s\n", employee.Name, d.Month)
			printf(cmd, "Звонки: %d (в среднем %d в день)\n", d.Weekly.TotalCalls, d.Weekly.AvgCallsPerDay)
			printf(cmd, "Контакты: %d\n", d.Weekly.TotalLeadsContacted)
			printf(cmd, "Конверсии: %d (%d%%, %s)\n", d.Weekly.TotalLeadsConverted, d.Weekly.ConversionRate, d.Level)
			printf(cmd, "Выручка: %s, ожидается: %s\n",
				models.FormatRevenue(d.Weekly.TotalRevenue), models.FormatRevenue(d.Weekly.TotalPending))
			if d.Target != nil {
				printf(cmd, "План: %d/%d (%d%%), выручка %s/%s (%d%%)\n",
					d.Target.AchievedValue, d.Target.TargetValue, d.TargetProgress,
					models.FormatRevenue(d.Target.RevenueAchieved), models.FormatRevenue(d.Target.RevenueTarget), d.RevenueProgress)
			}
			printf(cmd, "Посещаемость: присутствие %d, отсутствие %d, отпуск %d, полдня %d, %v ч\n",
				d.Attendance.Present, d.Attendance.Absent, d.Attendance.Leave, d.Attendance.HalfDay, d.Attendance.TotalHours)
			if d.Activity != nil {
				printf(cmd, "Активность сегодня: продуктивно %s, простой %s\n",
					models.FormatMinutes(d.Activity.ProductiveMinutes), models.FormatMinutes(d.Activity.TotalIdleMinutes))
			}
			printf(cmd, "%s\n", d.Insight)
			return nil
		},
	}
}

func newTeamCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "Статистика команды (администратор)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentAdmin(); err != nil {
				return err
			}

			d := app.Services.Dashboard.ForAdmin()
			printf(cmd, "Команда, %s\n", d.Month)
			printf(cmd, "Звонки: %d, конверсии: %d (в среднем %d%%)\n",
				d.Team.TotalTeamCalls, d.Team.TotalTeamConversions, d.Team.AverageConversionRate)
			printf(cmd, "Выручка: %s, ожидается: %s\n",
				models.FormatRevenue(d.Team.TotalTeamRevenue), models.FormatRevenue(d.Team.TotalTeamPending))
			if d.Team.TopPerformer != nil {
				printf(cmd, "Лучший: %s (%d%%)\n", d.Team.TopPerformer.Employee.Name, d.Team.TopPerformer.ConversionRate)
			}
			for _, e := range d.Team.Employees {
				printf(cmd, "  %-20s %4d звонков %4d конверсий %3d%% %s\n",
					e.Employee.Name, e.TotalCalls, e.TotalLeadsConverted, e.ConversionRate, models.FormatRevenue(e.TotalRevenue))
			}
			for _, a := range d.Active {
				printf(cmd, "  %-20s %s %s %s\n", a.Employee.Name, a.Status, a.CheckInTime, a.CheckOutTime)
			}
			printf(cmd, "Заявок на рассмотрении: %d, непрочитанных уведомлений: %d\n",
				len(d.PendingLeaves), d.UnreadNotifications)
			return nil
		},
	}
}
