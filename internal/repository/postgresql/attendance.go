package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attendanceSelect = `
	SELECT
		a.id, a.user_id, a.date, a.check_in_time, a.check_out_time,
		a.status, a.work_hours, a.notes,
		a.is_approved, a.approved_by, a.approved_at,
		a.created_at, a.updated_at,
		u.name, u.email, ap.name
	FROM attendances a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN users ap ON ap.id = a.approved_by
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func toPgTime(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(t.Duration() / time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := attendance.TimeOfDay(t.Microseconds / int64(time.Second/time.Microsecond))
	return &tod
}

// scanAttendance reads one row produced by attendanceSelect.
func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att      attendance.Attendance
		checkIn  pgtype.Time
		checkOut pgtype.Time
		status   string
	)
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &checkIn, &checkOut,
		&status, &att.WorkHours, &att.Notes,
		&att.IsApproved, &att.ApprovedBy, &att.ApprovedAt,
		&att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.UserEmail, &att.ApprovedByName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.CheckInTime = fromPgTime(checkIn)
	att.CheckOutTime = fromPgTime(checkOut)
	att.Status = attendance.Status(status)
	return att, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return attendances, nil
}

// UpsertClockIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertClockIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		att.ID = id.String()
	}

	// The conditional DO UPDATE makes a concurrent second clock-in return no
	// row instead of overwriting the first.
	query := `
		INSERT INTO attendances (id, user_id, date, check_in_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		WHERE attendances.check_in_time IS NULL
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.UserID,
		att.Date,
		toPgTime(att.CheckInTime),
		string(att.Status),
		att.Notes,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert clock-in: %w", err)
	}

	return att, nil
}

// SaveClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SaveClockOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $2, work_hours = $3, notes = $4, updated_at = NOW()
		WHERE id = $1 AND check_out_time IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		toPgTime(att.CheckOutTime),
		att.WorkHours,
		att.Notes,
	).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to save clock-out: %w", err)
	}

	return att, nil
}

// UpdateCorrection implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCorrection(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_time = $2,
			check_out_time = $3,
			status = $4,
			work_hours = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $1 AND is_approved = false
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		toPgTime(att.CheckInTime),
		toPgTime(att.CheckOutTime),
		string(att.Status),
		att.WorkHours,
		att.Notes,
	).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceApproved
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// Approve implements attendance.AttendanceRepository.
func (a *attendanceRepository) Approve(ctx context.Context, id string, approverID string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET is_approved = true, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $1 AND is_approved = false
	`

	tag, err := q.Exec(ctx, query, id, approverID, at)
	if err != nil {
		return false, fmt.Errorf("failed to approve attendance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.date = $2`, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return &att, nil
}

// FilterPending implements attendance.AttendanceRepository.
func (a *attendanceRepository) FilterPending(ctx context.Context, ids []string) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT id FROM attendances WHERE id = ANY($1::uuid[]) AND is_approved = false`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to filter pending attendances: %w", err)
	}

	pending, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending attendance ids: %w", err)
	}
	return pending, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.PendingOnly {
		baseWhere += " AND a.is_approved = false"
	}

	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY a.date DESC, a.check_in_time ASC NULLS LAST, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = attendance.DefaultPageSize
	}
	args = append(args, limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}

	attendances, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}
