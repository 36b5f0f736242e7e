package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	users   map[string]user.User
	seq     int

	// approveErr fails Approve for the listed ids.
	approveErr map[string]error
	// clockInRace makes UpsertClockIn behave as if another request won.
	clockInRace *attendance.Attendance
}

func newFakeAttendanceRepo(users ...user.User) *fakeAttendanceRepo {
	r := &fakeAttendanceRepo{
		records:    map[string]attendance.Attendance{},
		users:      map[string]user.User{},
		approveErr: map[string]error{},
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeAttendanceRepo) withNames(att attendance.Attendance) attendance.Attendance {
	if u, ok := r.users[att.UserID]; ok {
		name, email := u.Name, u.Email
		att.UserName, att.UserEmail = &name, &email
	}
	if att.ApprovedBy != nil {
		if u, ok := r.users[*att.ApprovedBy]; ok {
			name := u.Name
			att.ApprovedByName = &name
		}
	}
	return att
}

func (r *fakeAttendanceRepo) put(att attendance.Attendance) attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if att.ID == "" {
		r.seq++
		att.ID = fmt.Sprintf("00000000-0000-7000-8000-%012d", r.seq)
	}
	r.records[att.ID] = att
	return att
}

func (r *fakeAttendanceRepo) find(userID string, date time.Time) (attendance.Attendance, bool) {
	for _, att := range r.records {
		if att.UserID == userID && att.DateString() == date.Format("2006-01-02") {
			return att, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *fakeAttendanceRepo) UpsertClockIn(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if r.clockInRace != nil {
		r.put(*r.clockInRace)
		r.clockInRace = nil
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}
	r.mu.Lock()
	if cur, ok := r.find(att.UserID, att.Date); ok {
		if cur.CheckInTime != nil {
			r.mu.Unlock()
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		att.ID = cur.ID
	}
	r.mu.Unlock()
	return r.put(att), nil
}

func (r *fakeAttendanceRepo) SaveClockOut(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.records[att.ID]
	if !ok || cur.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
	}
	r.records[att.ID] = att
	return att, nil
}

func (r *fakeAttendanceRepo) UpdateCorrection(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.records[att.ID]; cur.IsApproved {
		return attendance.Attendance{}, attendance.ErrAttendanceApproved
	}
	r.records[att.ID] = att
	return att, nil
}

func (r *fakeAttendanceRepo) Approve(_ context.Context, id string, approverID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.approveErr[id]; err != nil {
		return false, err
	}
	cur, ok := r.records[id]
	if !ok || cur.IsApproved {
		return false, nil
	}
	r.records[id] = attendance.Approve(cur, approverID, at)
	return true, nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withNames(att), nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.find(userID, date)
	if !ok {
		return nil, nil
	}
	att = r.withNames(att)
	return &att, nil
}

func (r *fakeAttendanceRepo) FilterPending(_ context.Context, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pending := []string{}
	for _, id := range ids {
		if att, ok := r.records[id]; ok && !att.IsApproved {
			pending = append(pending, id)
		}
	}
	return pending, nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []attendance.Attendance
	for _, att := range r.records {
		if filter.UserID != nil && att.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && string(att.Status) != *filter.Status {
			continue
		}
		if filter.PendingOnly && att.IsApproved {
			continue
		}
		matched = append(matched, r.withNames(att))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (r fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r fakeUserRepo) ListActiveEmployees(_ context.Context, userID *string) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if userID == nil || u.ID == *userID {
			out = append(out, u)
		}
	}
	return out, nil
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) Get(context.Context, string, any) (cache.Slot, bool, error) {
	return "", false, nil
}
func (c *countingCache) Set(context.Context, cache.Slot, any) error { return nil }
func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}
