package gorm

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
)

// Int64List stores an id slice as a JSON text column.
type Int64List []int64

// Value implements driver.Valuer.
func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *Int64List) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("unsupported Int64List source type %T", src)
	}
}

// LineupRecord is one worn lineup row, scoped by actor/mode/fingerprint.
type LineupRecord struct {
	Actor          string    `gorm:"index:idx_lineups_scope,priority:1;not null"`
	Mode           string    `gorm:"index:idx_lineups_scope,priority:2;not null;default:''"`
	Fingerprint    string    `gorm:"index:idx_lineups_scope,priority:3;not null;default:''"`
	Signature      string    `gorm:"index;not null"`
	ItemIDs        Int64List `gorm:"type:text;not null"`
	WornDate       sql.NullString
	EntryIndex     int
	CreatedAtEpoch int64 `gorm:"index:idx_lineups_scope,priority:4,sort:desc;not null"`
	ID             int64 `gorm:"primaryKey;autoIncrement"`
}

func (LineupRecord) TableName() string { return "lineups" }

// BeforeCreate hook to ensure the timestamp is set.
func (r *LineupRecord) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAtEpoch == 0 {
		r.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// FeedbackRecord is one user feedback row for a lineup signature.
type FeedbackRecord struct {
	Actor          string    `gorm:"index:idx_feedback_scope,priority:1;not null"`
	Mode           string    `gorm:"index:idx_feedback_scope,priority:2;not null;default:''"`
	Fingerprint    string    `gorm:"index:idx_feedback_scope,priority:3;not null;default:''"`
	Signature      string    `gorm:"index;not null"`
	ItemIDs        Int64List `gorm:"type:text;not null"`
	Feedback       int       `gorm:"check:feedback IN (-1, 0, 1);not null"`
	TempBand       sql.NullString
	Formality      sql.NullString
	CreatedAtEpoch int64 `gorm:"index:idx_feedback_scope,priority:4,sort:desc;not null"`
	ID             int64 `gorm:"primaryKey;autoIncrement"`
}

func (FeedbackRecord) TableName() string { return "feedback" }

// BeforeCreate hook to ensure the timestamp is set.
func (r *FeedbackRecord) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAtEpoch == 0 {
		r.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}
