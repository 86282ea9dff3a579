package models

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
	AttendanceHalfDay = "half-day"
)

type Attendance struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"check_in,omitempty"`
	CheckOut     string  `json:"check_out,omitempty"`
	Status       string  `json:"status"`
	WorkingHours float64 `json:"working_hours,omitempty"`
}

// IsCheckedIn - отмечен приход
func (a *Attendance) IsCheckedIn() bool {
	return a.CheckIn != ""
}

// IsCheckedOut - отмечен уход
func (a *Attendance) IsCheckedOut() bool {
	return a.CheckOut != ""
}

// Migrate проставляет статус для старых записей
func (a *Attendance) Migrate() {
	if a.Status != "" {
		return
	}
	if a.IsCheckedIn() {
		a.Status = AttendancePresent
	} else {
		a.Status = AttendanceAbsent
	}
}
