package event

import (
	"assethub/persistence"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	AuditPersistCreateFunc = auditPersistCreate
)

// Record appends an audit event. Audit failures must not block the recorded
// operation, callers log the returned error as a warning.
func Record(sourceType, sourceId, sourceDesc string, category AuditCategory, detail AuditDetail, actorName string) error {
	if persistence.ActiveDataSourceManager == nil {
		return errors.New("audit sink is not configured")
	}
	record := AuditRecord{
		AuditEvent: AuditEvent{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			ActorName: actorName,

			Category: category,
			Detail:   detail,
		},
		Timestamp: types.CurrentTimestamp(),
	}
	return AuditPersistCreateFunc(&record, persistence.ActiveDataSourceManager.GormDB())
}

func auditPersistCreate(record *AuditRecord, db *gorm.DB) error {
	return db.Create(record).Error
}
