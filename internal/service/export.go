package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/export"
	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/repository"
)

// ExportKind - какой набор выгружается
type ExportKind string

const (
	ExportEmployees    ExportKind = "employees"
	ExportPerformances ExportKind = "performances"
	ExportAttendance   ExportKind = "attendance"
	ExportLeave        ExportKind = "leave"
)

const unknownEmployee = "Unknown"

// ParseExportKind разбирает название набора
func ParseExportKind(s string) (ExportKind, error) {
	switch kind := ExportKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case ExportEmployees, ExportPerformances, ExportAttendance, ExportLeave:
		return kind, nil
	case "leave_requests":
		return ExportLeave, nil
	}
	return "", invalid("неизвестный набор для выгрузки: %s (employees, performances, attendance, leave)", s)
}

// FileName - имя файла выгрузки
func (k ExportKind) FileName(format export.Format) string {
	name := string(k)
	if k == ExportLeave {
		name = "leave_requests"
	}
	return name + format.Extension()
}

type ExportService struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

func NewExportService(repos *repository.Repositories) *ExportService {
	return &ExportService{
		repos:  repos,
		logger: logger.GetLogger("service"),
	}
}

func (s *ExportService) employeeNames() map[string]string {
	names := make(map[string]string)
	for _, e := range s.repos.Employees.GetAll() {
		names[e.ID] = e.Name
	}
	return names
}

func nameOf(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownEmployee
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Table строит таблицу для выгрузки
func (s *ExportService) Table(kind ExportKind) (export.Table, error) {
	t := export.Table{Name: string(kind)}

	switch kind {
	case ExportEmployees:
		t.Headers = []string{"Name", "Email", "Department", "JoinDate"}
		for _, e := range s.repos.Employees.GetSalesEmployees() {
			t.AddRow(e.Name, e.Email, e.Department, e.JoinDate)
		}

	case ExportPerformances:
		names := s.employeeNames()
		t.Headers = []string{"Employee", "Date", "Calls", "LeadsContacted", "Conversions", "RevenueGenerated", "RevenuePending"}
		for _, p := range s.repos.Performances.GetAll() {
			t.AddRow(nameOf(names, p.EmployeeID), p.Date, p.CallsMade, p.LeadsContacted, p.LeadsConverted, p.RevenueGenerated, p.RevenuePending)
		}

	case ExportAttendance:
		names := s.employeeNames()
		t.Headers = []string{"Employee", "Date", "CheckIn", "CheckOut", "Hours", "Status"}
		for _, a := range s.repos.Attendance.GetAll() {
			t.AddRow(nameOf(names, a.EmployeeID), a.Date, orDash(a.CheckIn), orDash(a.CheckOut), a.WorkingHours, a.Status)
		}

	case ExportLeave:
		names := s.employeeNames()
		t.Headers = []string{"Employee", "StartDate", "EndDate", "Type", "Reason", "Status", "AppliedOn", "ReviewNote"}
		for _, l := range s.repos.LeaveRequests.GetAll() {
			t.AddRow(nameOf(names, l.EmployeeID), l.StartDate, l.EndDate, l.LeaveType, l.Reason, l.Status, l.AppliedOn, orDash(l.ReviewNote))
		}

	default:
		return t, invalid("неизвестный набор для выгрузки: %s", kind)
	}

	if t.IsEmpty() {
		return t, ErrNothingToExport
	}
	return t, nil
}

// Export пишет выгрузку в w
func (s *ExportService) Export(w io.Writer, kind ExportKind, format export.Format) error {
	t, err := s.Table(kind)
	if err != nil {
		return err
	}
	if err := export.Write(w, t, format); err != nil {
		return fmt.Errorf("export %s: %w", kind, err)
	}

	s.logger.WithFields(logrus.Fields{
		"kind":   kind,
		"format": format,
		"rows":   len(t.Rows),
	}).Info("Data exported")
	return nil
}
