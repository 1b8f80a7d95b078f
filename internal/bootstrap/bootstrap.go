package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/config"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/shift-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/keylock"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/workday"
	"github.com/cmlabs-hris/shift-attendance/internal/repository/memory"
	"github.com/cmlabs-hris/shift-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/shift-attendance/internal/service/attendance"
	rosterService "github.com/cmlabs-hris/shift-attendance/internal/service/roster"
	shiftService "github.com/cmlabs-hris/shift-attendance/internal/service/shift"
	"github.com/go-chi/httplog/v3"
)

const AppName = "shift-attendance"

// NewLogger builds the JSON slog logger with ECS attribute names.
func NewLogger(cfg *config.Config, version string) (*slog.Logger, slog.Level, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, 0, err
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", AppName),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	return logger, level, nil
}

type Repositories struct {
	Attendance attendance.AttendanceRepository
	ShiftDays  attendance.ShiftDayRepository
	Employees  employee.EmployeeRepository
	Templates  schedule.ShiftTemplateRepository
	DB         *database.DB
}

// Close releases the database pool, if any.
func (r Repositories) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}

// OpenRepositories connects the storage driver selected by STORAGE_DRIVER.
func OpenRepositories(ctx context.Context, cfg *config.Config, policy workday.Policy) (Repositories, error) {
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		employees, err := parseMemoryEmployees(cfg.App.MemoryEmployees)
		if err != nil {
			return Repositories{}, err
		}
		store := memory.NewAttendanceStore()
		return Repositories{
			Attendance: store,
			ShiftDays:  store,
			Employees:  memory.NewEmployeeDirectory(employees...),
			Templates:  memory.NewShiftTemplateStore(),
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return Repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if cfg.Database.AutoMigrate {
			if err := postgresql.RunMigrations(ctx, db); err != nil {
				db.Close()
				return Repositories{}, err
			}
		}

		attendanceRepo := postgresql.NewAttendanceRepository(db, policy.Location)
		return Repositories{
			Attendance: attendanceRepo,
			ShiftDays:  attendanceRepo,
			Employees:  postgresql.NewEmployeeRepository(db),
			Templates:  postgresql.NewShiftTemplateRepository(db),
			DB:         db,
		}, nil

	default:
		return Repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.App.StorageDriver)
	}
}

func parseMemoryEmployees(entries []string) ([]employee.Employee, error) {
	var employees []employee.Employee
	for _, entry := range entries {
		id, name, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid MEMORY_EMPLOYEES entry %q, expected id=Full Name", entry)
		}
		employees = append(employees, employee.Employee{
			ID:               id,
			FullName:         name,
			EmploymentStatus: employee.EmploymentStatusActive,
		})
	}
	return employees, nil
}

type Services struct {
	Attendance attendance.AttendanceService
	Shift      attendance.ShiftService
	Roster     attendance.RosterService
}

// NewServices wires the services over repos. Session and lifecycle mutations share one key lock.
func NewServices(repos Repositories, policy workday.Policy, now func() time.Time) Services {
	locks := keylock.New()
	return Services{
		Attendance: attendanceService.NewAttendanceService(repos.Attendance, repos.ShiftDays, repos.Employees, policy, locks, now),
		Shift:      shiftService.NewShiftService(repos.Attendance, repos.ShiftDays, repos.Employees, repos.Templates, policy, locks, now),
		Roster:     rosterService.NewRosterService(repos.Attendance, repos.Employees, repos.Templates, policy, now),
	}
}
