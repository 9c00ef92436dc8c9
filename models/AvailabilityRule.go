package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule types understood by the rule engine.
const (
	RuleMinNights         = "min_nights"          // params: {"minNights": 3}
	RuleWeekdayMinNights  = "weekday_min_nights"  // params: {"weekdays": [5,6], "minNights": 2}
	RuleBlackoutWeekday   = "blackout_weekday"    // params: {"weekdays": [0]}
	RuleSeasonalMinNights = "seasonal_min_nights" // params: {"startDate": "...", "endDate": "...", "minNights": 7}
	RuleMaxNights         = "max_nights"          // params: {"maxNights": 30}
)

// AvailabilityRule is an advisory policy consulted when validating a booking
// range. Rules never mutate the calendar; they only gate requests. A nil
// RoomID means the rule applies company-wide.
type AvailabilityRule struct {
	gorm.Model
	CompanyID uint           `json:"companyID" gorm:"not null;index"`
	RoomID    *uint          `json:"roomID" gorm:"index"`
	Name      string         `json:"name" gorm:"not null"`
	RuleType  string         `json:"ruleType" gorm:"not null"`
	Params    datatypes.JSON `json:"params"`
	Priority  int            `json:"priority" gorm:"default:0;index"`
	IsActive  bool           `json:"isActive" gorm:"default:true"`
}
