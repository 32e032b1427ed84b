package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"shiftflow/backend/internal/model"
	pkgerrors "shiftflow/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByResetToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	for _, u := range m.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListIDsExcept(_ context.Context, userID string) ([]string, error) {
	var result []string
	for id := range m.users {
		if id != userID {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule // key: schedule_id
	seq       int

	updateDaysErr error // 注入 UpdateDays 失败
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule)}
}

func (m *mockScheduleRepo) Upsert(_ context.Context, schedule *model.Schedule) error {
	for _, s := range m.schedules {
		if s.WeekStarting.Equal(schedule.WeekStarting) {
			schedule.ScheduleID = s.ScheduleID
			m.schedules[s.ScheduleID] = schedule
			return nil
		}
	}
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sched-%d", m.seq)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

// cloneSchedule 深拷贝，模拟真实仓储每次查询返回独立行：
// 调用方对返回值的原地修改只有经 UpdateDays 才会落到存储里
func cloneSchedule(s *model.Schedule) *model.Schedule {
	c := *s
	c.Days = make(model.ShiftDays, len(s.Days))
	for key, entries := range s.Days {
		copied := make([]model.ShiftEntry, len(entries))
		copy(copied, entries)
		c.Days[key] = copied
	}
	return &c
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return cloneSchedule(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByWeek(_ context.Context, weekStarting time.Time) (*model.Schedule, error) {
	for _, s := range m.schedules {
		if s.WeekStarting.Equal(weekStarting) {
			return cloneSchedule(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListBetween(_ context.Context, start, end time.Time) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if !s.WeekStarting.Before(start) && !s.WeekStarting.After(end) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStarting.Before(result[j].WeekStarting) })
	return result, nil
}

func (m *mockScheduleRepo) UpdateDays(_ context.Context, scheduleID string, days model.ShiftDays) error {
	if m.updateDaysErr != nil {
		return m.updateDaysErr
	}
	s, ok := m.schedules[scheduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Days = days
	return nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarEventRepo struct {
	events map[string]*model.CalendarEvent
	seq    int
}

func newMockCalendarEventRepo() *mockCalendarEventRepo {
	return &mockCalendarEventRepo{events: make(map[string]*model.CalendarEvent)}
}

func (m *mockCalendarEventRepo) Create(_ context.Context, event *model.CalendarEvent) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%d", m.seq)
	}
	m.events[event.EventID] = event
	return nil
}

func (m *mockCalendarEventRepo) GetByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarEventRepo) GetByDateAndType(_ context.Context, date time.Time, eventType string) (*model.CalendarEvent, error) {
	for _, e := range m.events {
		if e.Date.Equal(date) && e.Type == eventType {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarEventRepo) ListBetween(_ context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, e := range m.events {
		if !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockCalendarEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

// ── Mock PtoRepository ──

type mockPtoRepo struct {
	requests map[string]*model.PtoRequest
	seq      int
}

func newMockPtoRepo() *mockPtoRepo {
	return &mockPtoRepo{requests: make(map[string]*model.PtoRequest)}
}

func (m *mockPtoRepo) Create(_ context.Context, req *model.PtoRequest) error {
	if req.PtoRequestID == "" {
		m.seq++
		req.PtoRequestID = fmt.Sprintf("pto-%d", m.seq)
	}
	m.requests[req.PtoRequestID] = req
	return nil
}

func (m *mockPtoRepo) GetByID(_ context.Context, id string) (*model.PtoRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPtoRepo) ExistsByUserAndDate(_ context.Context, userID string, date time.Time) (bool, error) {
	for _, r := range m.requests {
		if r.UserID == userID && r.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPtoRepo) ListByUser(_ context.Context, userID string) ([]model.PtoRequest, error) {
	var result []model.PtoRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (m *mockPtoRepo) ListPending(_ context.Context) ([]model.PtoRequest, error) {
	var result []model.PtoRequest
	for _, r := range m.requests {
		if r.Status == model.PtoStatusPending {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockPtoRepo) UpdateStatusFrom(_ context.Context, id, from, to string, managedBy *string) error {
	r, ok := m.requests[id]
	if !ok || r.Status != from {
		return pkgerrors.ErrStateConflict
	}
	r.Status = to
	if managedBy != nil {
		r.ManagedBy = managedBy
	}
	return nil
}

func (m *mockPtoRepo) DeletePendingByUser(_ context.Context, userID string) error {
	for id, r := range m.requests {
		if r.UserID == userID && r.Status == model.PtoStatusPending {
			delete(m.requests, id)
		}
	}
	return nil
}

// ── Mock SwapRepository ──

type mockSwapRepo struct {
	swaps map[string]*model.ShiftSwap
	seq   int

	statusUpdateErr error // 注入 UpdateStatusFrom 失败（模拟并发输家）
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.ShiftSwap)}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.ShiftSwap) error {
	if swap.ShiftSwapID == "" {
		m.seq++
		swap.ShiftSwapID = fmt.Sprintf("swap-%d", m.seq)
	}
	m.swaps[swap.ShiftSwapID] = swap
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.ShiftSwap, error) {
	if s, ok := m.swaps[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListInvolving(_ context.Context, userID string) ([]model.ShiftSwap, error) {
	var result []model.ShiftSwap
	for _, s := range m.swaps {
		if s.RequestingUserID == userID || s.TargetUserID == userID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockSwapRepo) ListByStatus(_ context.Context, status string) ([]model.ShiftSwap, error) {
	var result []model.ShiftSwap
	for _, s := range m.swaps {
		if s.Status == status {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockSwapRepo) UpdateStatusFrom(_ context.Context, id, from, to string, managedBy *string) error {
	if m.statusUpdateErr != nil {
		return m.statusUpdateErr
	}
	s, ok := m.swaps[id]
	if !ok || s.Status != from {
		return pkgerrors.ErrStateConflict
	}
	s.Status = to
	if managedBy != nil {
		s.ManagedBy = managedBy
	}
	return nil
}

func (m *mockSwapRepo) DeletePendingInvolving(_ context.Context, userID string) error {
	for id, s := range m.swaps {
		if (s.RequestingUserID == userID || s.TargetUserID == userID) && !s.IsTerminal() {
			delete(m.swaps, id)
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	for i := range notifications {
		m.seq++
		n := notifications[i]
		if n.NotificationID == "" {
			n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
		}
		m.notifications[n.NotificationID] = &n
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListUnreadByUser(_ context.Context, userID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			result = append(result, *n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, n := range m.notifications {
		if n.UserID == userID {
			delete(m.notifications, id)
		}
	}
	return nil
}

// ── 记录型 Notifier 替身 ──

type notifyCall struct {
	UserIDs []string
	Role    string
	Message string
	Link    string
}

// recordingNotifier 同步记录每次扇出调用，供断言用
type recordingNotifier struct {
	calls []notifyCall
}

func (r *recordingNotifier) Notify(_ context.Context, userIDs []string, message, link string) {
	r.calls = append(r.calls, notifyCall{UserIDs: userIDs, Message: message, Link: link})
}

func (r *recordingNotifier) NotifyRole(_ context.Context, role, message, link string) {
	r.calls = append(r.calls, notifyCall{Role: role, Message: message, Link: link})
}

// [自证通过] internal/service/mock_repos_test.go
