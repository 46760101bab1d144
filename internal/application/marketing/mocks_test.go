package marketing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockEmailRepo struct {
	mock.Mock
}

func (m *mockEmailRepo) FindByID(ctx context.Context, id uuid.UUID) (*marketing.EmailAutomation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.EmailAutomation), args.Error(1)
}

func (m *mockEmailRepo) FindAll(ctx context.Context, filter shared.Filter) ([]marketing.EmailAutomation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.EmailAutomation), args.Error(1)
}

func (m *mockEmailRepo) Save(ctx context.Context, automation *marketing.EmailAutomation) error {
	args := m.Called(ctx, automation)
	return args.Error(0)
}

func (m *mockEmailRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEmailRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEmailRepo) FindActiveByTrigger(ctx context.Context, event string) ([]marketing.EmailAutomation, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.EmailAutomation), args.Error(1)
}

func (m *mockEmailRepo) IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error {
	args := m.Called(ctx, id, success)
	return args.Error(0)
}

type mockSmsRepo struct {
	mock.Mock
}

func (m *mockSmsRepo) FindByID(ctx context.Context, id uuid.UUID) (*marketing.SmsAutomation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.SmsAutomation), args.Error(1)
}

func (m *mockSmsRepo) FindAll(ctx context.Context, filter shared.Filter) ([]marketing.SmsAutomation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SmsAutomation), args.Error(1)
}

func (m *mockSmsRepo) Save(ctx context.Context, automation *marketing.SmsAutomation) error {
	args := m.Called(ctx, automation)
	return args.Error(0)
}

func (m *mockSmsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSmsRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSmsRepo) FindActiveByTrigger(ctx context.Context, event string) ([]marketing.SmsAutomation, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SmsAutomation), args.Error(1)
}

func (m *mockSmsRepo) IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error {
	args := m.Called(ctx, id, success)
	return args.Error(0)
}

// capturingTaskRepo stores saved tasks in memory so tests can inspect
// what the runner queued
type capturingTaskRepo struct {
	mu    sync.Mutex
	saved []*marketing.FlowTask
}

func (r *capturingTaskRepo) Save(ctx context.Context, task *marketing.FlowTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, task)
	return nil
}

func (r *capturingTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*marketing.FlowTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range r.saved {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *capturingTaskRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]marketing.FlowTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []marketing.FlowTask
	for _, task := range r.saved {
		if task.IsDue(now) {
			due = append(due, *task)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (r *capturingTaskRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range r.saved {
		if task.ID == id && task.Status == marketing.TaskStatusPending {
			task.Status = marketing.TaskStatusRunning
			return true, nil
		}
	}
	return false, nil
}

// capturingRunLogRepo collects appended run logs
type capturingRunLogRepo struct {
	mu   sync.Mutex
	logs []*marketing.FlowRunLog
}

func (r *capturingRunLogRepo) Append(ctx context.Context, log *marketing.FlowRunLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *capturingRunLogRepo) FindByAutomation(ctx context.Context, automationID uuid.UUID, filter shared.Filter) ([]marketing.FlowRunLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketing.FlowRunLog
	for _, log := range r.logs {
		if log.AutomationID == automationID {
			out = append(out, *log)
		}
	}
	return out, nil
}

// capturingPublisher records published domain events
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

func timeNowMinusMinute() time.Time {
	return time.Now().Add(-time.Minute)
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

type sentSMS struct {
	To      string
	Message string
}

type fakeSMSSender struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{To: to, Message: message})
	return nil
}
