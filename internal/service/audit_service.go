package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/pkg/jobs"
)

const auditJobKind = "audit_log"

// redactedValue replaces personal data in audit payloads.
const redactedValue = "[REDACTED]"

var piiKeys = map[string]struct{}{
	"email":      {},
	"phone":      {},
	"answers":    {},
	"first_name": {},
	"last_name":  {},
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type auditQueue interface {
	Enqueue(job jobs.Job) error
}

// AuditEntry describes an auditable event before redaction.
type AuditEntry struct {
	ActorType    string
	ActorUserID  string
	ActorService string
	Action       string
	EntityTable  string
	EntityID     string
	AfterData    map[string]interface{}
	Meta         map[string]interface{}
	IPAddress    string
	UserAgent    string
}

// AuditService redacts and persists audit events, off the request path when a queue is wired.
type AuditService struct {
	repo   auditWriter
	queue  auditQueue
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService constructs an AuditService. queue may be nil for synchronous writes.
func NewAuditService(repo auditWriter, queue auditQueue, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, queue: queue, logger: logger, now: time.Now}
}

// AttachQueue wires the background queue once it has been built around HandleJob.
func (s *AuditService) AttachQueue(queue auditQueue) {
	s.queue = queue
}

// Record stores an audit event. Failures are logged and never surface to the caller.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil || s.repo == nil {
		return
	}
	log := s.build(entry)
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: log.ID, Kind: auditJobKind, Payload: log})
		if err == nil {
			return
		}
		s.logger.Warn("audit queue unavailable, writing inline", zap.String("action", log.Action), zap.Error(err))
	}
	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		s.logger.Error("failed to write audit log", zap.String("action", log.Action), zap.String("entity", log.EntityTable), zap.Error(err))
	}
}

// HandleJob is the queue handler persisting queued audit logs.
func (s *AuditService) HandleJob(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit job payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		return fmt.Errorf("persist audit log: %w", err)
	}
	return nil
}

func (s *AuditService) build(entry AuditEntry) *models.AuditLog {
	log := &models.AuditLog{
		ID:           uuid.NewString(),
		ActorType:    entry.ActorType,
		ActorService: entry.ActorService,
		Action:       entry.Action,
		EntityTable:  entry.EntityTable,
		AfterData:    RedactPII(entry.AfterData),
		Meta:         RedactPII(entry.Meta),
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		CreatedAt:    s.now().UTC(),
	}
	if entry.ActorUserID != "" {
		id := entry.ActorUserID
		log.ActorUserID = &id
	}
	if entry.EntityID != "" {
		id := entry.EntityID
		log.EntityID = &id
	}
	return log
}

// RedactPII copies payload replacing personal fields at any depth.
func RedactPII(payload map[string]interface{}) models.JSONMap {
	cleaned := make(models.JSONMap, len(payload))
	for key, value := range payload {
		if _, pii := piiKeys[key]; pii {
			cleaned[key] = redactedValue
			continue
		}
		switch v := value.(type) {
		case map[string]interface{}:
			cleaned[key] = map[string]interface{}(RedactPII(v))
		case models.JSONMap:
			cleaned[key] = RedactPII(v)
		case uuid.UUID:
			cleaned[key] = v.String()
		default:
			cleaned[key] = value
		}
	}
	return cleaned
}
