package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

const (
	AuditCategoryCreated          = "CREATED"
	AuditCategoryUpdated          = "UPDATED"
	AuditCategoryDeleted          = "DELETED"
	AuditCategoryTemplateImported = "TEMPLATE_IMPORTED"
)

type AuditCategory string

type AuditEvent struct {
	SourceType string `json:"sourceType"`
	SourceId   string `json:"sourceId"`
	SourceDesc string `json:"sourceDesc"`

	ActorName string `json:"actorName"`

	Category AuditCategory `json:"category"`
	Detail   AuditDetail   `json:"detail" sql:"type:TEXT"`
}

type AuditRecord struct {
	AuditEvent

	Timestamp types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
}

func (r *AuditRecord) TableName() string {
	return "audit_events"
}

type AuditDetail map[string]interface{}

func (t AuditDetail) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *AuditDetail) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), c)
}
