package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/service"
	"salestrack-bot/internal/tracker"
)

var errAdminOnly = errors.New("команда доступна только администраторам")

// App - зависимости команд salestrack
type App struct {
	Repos    *repository.Repositories
	Services *service.Services
	Clock    tracker.Clock
	Tracker  tracker.Config
}

// NewRootCommand собирает дерево команд salestrack
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "salestrack",
		Short:        "Учет продаж, посещаемости и отпусков сотрудников",
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newProfileCommand(app),
		newCheckInCommand(app),
		newCheckOutCommand(app),
		newTrackCommand(app),
		newLogCommand(app),
		newStatsCommand(app),
		newTeamCommand(app),
		newLeaveCommand(app),
		newEmployeeCommand(app),
		newNotificationsCommand(app),
		newExportCommand(app),
		newClearCommand(app),
	)

	return root
}

func (a *App) currentUser() (*models.Employee, error) {
	employee, err := a.Services.Auth.CurrentUser()
	if err != nil {
		return nil, fmt.Errorf("%w: выполните salestrack login", err)
	}
	return employee, nil
}

func (a *App) currentAdmin() (*models.Employee, error) {
	employee, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	if !employee.IsAdmin() {
		return nil, errAdminOnly
	}
	return employee, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
