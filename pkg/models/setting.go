package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Setting is a single key/value configuration row.
type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Key   string `bun:"key,pk"          json:"key"`
	Value string `bun:"value,type:text" json:"value"`
}
