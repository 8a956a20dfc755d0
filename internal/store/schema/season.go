package schema

import "time"

// Season represents the seasons table - time-boxed epochs used to bucket evermarks
type Season struct {
	// Number is the season ordinal, starting at 1
	Number    int       `gorm:"column:number;primaryKey"`
	StartTime time.Time `gorm:"column:start_time;not null;type:timestamptz;index:idx_seasons_window,priority:1"`
	EndTime   time.Time `gorm:"column:end_time;not null;type:timestamptz;index:idx_seasons_window,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Season model
func (Season) TableName() string {
	return "seasons"
}
