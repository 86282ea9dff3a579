package cli

import (
	"github.com/spf13/cobra"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/service"
)

func newLeaveCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Заявки на отпуск",
	}
	cmd.AddCommand(
		newLeaveApplyCommand(app),
		newLeaveListCommand(app),
		newLeavePendingCommand(app),
		newLeaveApproveCommand(app),
		newLeaveRejectCommand(app),
	)
	return cmd
}

func newLeaveApplyCommand(app *App) *cobra.Command {
	var input service.LeaveInput

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Подать заявку",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}
			if input.EndDate == "" {
				input.EndDate = input.StartDate
			}

			req, err := app.Services.Leave.Apply(employee, input)
			if err != nil {
				return err
			}
			printf(cmd, "Заявка %s подана: %s %s - %s\n", req.ID, req.LeaveType, req.StartDate, req.EndDate)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.LeaveType, "type", models.LeaveCasual, "sick, casual, annual, emergency, half-day")
	flags.StringVar(&input.StartDate, "from", "", "первый день ГГГГ-ММ-ДД")
	flags.StringVar(&input.EndDate, "to", "", "последний день ГГГГ-ММ-ДД (по умолчанию равен --from)")
	flags.StringVar(&input.Reason, "reason", "", "причина")
	return cmd
}

func printLeaves(cmd *cobra.Command, requests []models.LeaveRequest, names map[string]string) {
	if len(requests) == 0 {
		printf(cmd, "Заявок нет\n")
		return
	}
	for _, r := range requests {
		who := ""
		if names != nil {
			who = names[r.EmployeeID] + " "
		}
		printf(cmd, "%s  %s%s %s - %s  %s  %s\n", r.ID, who, r.LeaveType, r.StartDate, r.EndDate, r.Status, r.Reason)
		if r.ReviewNote != "" {
			printf(cmd, "    %s\n", r.ReviewNote)
		}
	}
}

func newLeaveListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Мои заявки",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee, err := app.currentUser()
			if err != nil {
				return err
			}
			printLeaves(cmd, app.Services.Leave.MyRequests(employee.ID), nil)
			return nil
		},
	}
}

func newLeavePendingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Заявки на рассмотрении (администратор)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentAdmin(); err != nil {
				return err
			}

			names := make(map[string]string)
			for _, e := range app.Services.Employees.ListEmployees() {
				names[e.ID] = e.Name
			}
			printLeaves(cmd, app.Services.Leave.Pending(), names)
			return nil
		},
	}
}

func newLeaveApproveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Одобрить заявку (администратор)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.currentAdmin()
			if err != nil {
				return err
			}
			req, err := app.Services.Leave.Approve(args[0], admin)
			if err != nil {
				return err
			}
			printf(cmd, "Заявка одобрена: %s - %s\n", req.StartDate, req.EndDate)
			return nil
		},
	}
}

func newLeaveRejectCommand(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Отклонить заявку (администратор)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := app.currentAdmin()
			if err != nil {
				return err
			}
			req, err := app.Services.Leave.Reject(args[0], admin, note)
			if err != nil {
				return err
			}
			printf(cmd, "Заявка отклонена: %s - %s (%s)\n", req.StartDate, req.EndDate, req.ReviewNote)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "комментарий")
	return cmd
}
