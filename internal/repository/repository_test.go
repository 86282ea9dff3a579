package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
)

func newTestRepos(t *testing.T) (*Repositories, *store.Store) {
	t.Helper()
	st, err := store.OpenStore(filepath.Join(t.TempDir(), "salestrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, 3), st
}

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func addEmployee(t *testing.T, repos *Repositories, name, email string) *models.Employee {
	t.Helper()
	e, err := repos.Employees.Add(models.Employee{
		Name:       name,
		Email:      email,
		Role:       models.RoleEmployee,
		Department: "Sales",
		JoinDate:   "2024-01-15",
	})
	require.NoError(t, err)
	return e
}

func TestEmployeeAddAssignsIDAndAvatar(t *testing.T) {
	repos, _ := newTestRepos(t)

	e := addEmployee(t, repos, "Jane Doe", "jane@example.com")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=Jane%20Doe", e.Avatar)

	found, err := repos.Employees.GetByEmail("JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, e.ID, found.ID)

	_, err = repos.Employees.GetByID("missing")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestEmployeeUpdateRenameRegeneratesAvatar(t *testing.T) {
	repos, _ := newTestRepos(t)
	e := addEmployee(t, repos, "Jane", "jane@example.com")

	updated, err := repos.Employees.Update(e.ID, EmployeePatch{Name: ptr("Janet"), Department: ptr("Retail")})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.Name)
	assert.Equal(t, "Retail", updated.Department)
	assert.Equal(t, models.AvatarURL("Janet"), updated.Avatar)
	assert.Equal(t, "jane@example.com", updated.Email)

	_, err = repos.Employees.Update("missing", EmployeePatch{})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestAuthenticate(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.Employees.Add(models.Employee{Name: "A", Email: "a@x.com", Role: models.RoleEmployee, Password: "pw"})
	require.NoError(t, err)
	_, err = repos.Employees.Add(models.Employee{Name: "B", Email: "b@x.com", Role: models.RoleEmployee})
	require.NoError(t, err)

	e, ok := repos.Employees.Authenticate("A@X.com", "pw", models.RoleEmployee)
	require.True(t, ok)
	assert.Equal(t, "A", e.Name)

	_, ok = repos.Employees.Authenticate("a@x.com", "wrong", models.RoleEmployee)
	assert.False(t, ok)

	_, ok = repos.Employees.Authenticate("a@x.com", "pw", models.RoleAdmin)
	assert.False(t, ok)

	_, ok = repos.Employees.Authenticate("b@x.com", "anything", models.RoleEmployee)
	assert.True(t, ok)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.Employees.Add(models.Employee{Name: "Old", Email: "admin@company.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	seed := AdminSeed{Name: "Admin User", Email: "admin@glowlogics.com", Password: "123456", LegacyEmail: "admin@company.com"}

	created, err := repos.Employees.EnsureDefaultAdmin(seed, at("2024-06-01 09:00"))
	require.NoError(t, err)
	assert.True(t, created)

	all := repos.Employees.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "admin@glowlogics.com", all[0].Email)
	assert.True(t, all[0].IsAdmin())
	assert.Equal(t, "2024-06-01", all[0].JoinDate)

	created, err = repos.Employees.EnsureDefaultAdmin(seed, at("2024-06-02 09:00"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repos.Employees.GetAll(), 1)

	_, ok := repos.Employees.Authenticate("admin@glowlogics.com", "123456", models.RoleAdmin)
	assert.True(t, ok)
}

func TestDeleteEmployeeCascades(t *testing.T) {
	repos, _ := newTestRepos(t)
	gone := addEmployee(t, repos, "Gone", "gone@x.com")
	kept := addEmployee(t, repos, "Kept", "kept@x.com")

	for _, id := range []string{gone.ID, kept.ID} {
		_, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: id, Date: "2024-06-10", LeadsContacted: 5, LeadsConverted: 1})
		require.NoError(t, err)
		_, err = repos.Targets.Upsert(models.Target{EmployeeID: id, Month: "2024-06", TargetValue: 10})
		require.NoError(t, err)
		_, err = repos.Attendance.CheckIn(id, at("2024-06-10 09:00"))
		require.NoError(t, err)
		_, err = repos.LeaveRequests.Add(models.LeaveRequest{EmployeeID: id, StartDate: "2024-06-20", EndDate: "2024-06-21", LeaveType: models.LeaveSick}, at("2024-06-10 10:00"))
		require.NoError(t, err)
	}

	require.NoError(t, repos.Employees.Delete(gone.ID))

	_, err := repos.Employees.GetByID(gone.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	assert.Empty(t, repos.Performances.GetByEmployee(gone.ID))
	assert.Empty(t, repos.Targets.GetByEmployee(gone.ID))
	assert.Empty(t, repos.Attendance.GetByEmployee(gone.ID, ""))
	assert.Empty(t, repos.LeaveRequests.GetByEmployee(gone.ID))

	assert.Len(t, repos.Performances.GetByEmployee(kept.ID), 1)
	assert.Len(t, repos.Targets.GetByEmployee(kept.ID), 1)
	assert.Len(t, repos.Attendance.GetByEmployee(kept.ID, ""), 1)
	assert.Len(t, repos.LeaveRequests.GetByEmployee(kept.ID), 1)

	assert.ErrorIs(t, repos.Employees.Delete(gone.ID), ErrEmployeeNotFound)
}

func TestGetSalesEmployeesExcludesAdmins(t *testing.T) {
	repos, _ := newTestRepos(t)
	addEmployee(t, repos, "Seller", "s@x.com")
	_, err := repos.Employees.Add(models.Employee{Name: "Boss", Email: "boss@x.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	sales := repos.Employees.GetSalesEmployees()
	require.Len(t, sales, 1)
	assert.Equal(t, "Seller", sales[0].Name)
}
