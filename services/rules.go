package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RuleService evaluates recurring booking policies (minimum stays, blackout
// weekdays, seasonal restrictions). Rules gate booking requests; they never
// mutate the calendar.
type RuleService struct{}

func NewRuleService() *RuleService {
	return &RuleService{}
}

// ruleParams is the superset of parameters a rule may carry; each rule type
// reads the fields it cares about.
type ruleParams struct {
	MinNights int    `json:"minNights"`
	MaxNights int    `json:"maxNights"`
	Weekdays  []int  `json:"weekdays"` // 0=Sunday .. 6=Saturday
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ValidateAvailabilityRules applies every active rule matching the room (or
// company-wide), highest priority first. The first failing rule
// short-circuits.
func (s *RuleService) ValidateAvailabilityRules(companyID, roomID uint, checkIn, checkOut time.Time) error {
	return s.validateTx(storage.DB, companyID, roomID, utils.NewDateRange(checkIn, checkOut))
}

func (s *RuleService) validateTx(tx *gorm.DB, companyID, roomID uint, rng utils.DateRange) error {
	if !rng.IsValid() {
		return fmt.Errorf("%w: checkIn must be before checkOut", ErrInvalidRange)
	}

	var rules []models.AvailabilityRule
	err := tx.Where("company_id = ? AND is_active = ? AND (room_id = ? OR room_id IS NULL)",
		companyID, true, roomID).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	if err != nil {
		return err
	}

	for _, rule := range rules {
		ok, reason := s.evaluate(rule, rng)
		if !ok {
			return fmt.Errorf("%w: rule %q: %s", ErrRulesViolation, rule.Name, reason)
		}
	}
	return nil
}

func (s *RuleService) evaluate(rule models.AvailabilityRule, rng utils.DateRange) (bool, string) {
	var params ruleParams
	if len(rule.Params) > 0 {
		if err := json.Unmarshal(rule.Params, &params); err != nil {
			log.Printf("rule %d has malformed params, skipping: %v", rule.ID, err)
			return true, ""
		}
	}

	switch rule.RuleType {
	case models.RuleMinNights:
		if rng.Nights() < params.MinNights {
			return false, fmt.Sprintf("minimum stay is %d nights", params.MinNights)
		}
	case models.RuleMaxNights:
		if params.MaxNights > 0 && rng.Nights() > params.MaxNights {
			return false, fmt.Sprintf("maximum stay is %d nights", params.MaxNights)
		}
	case models.RuleWeekdayMinNights:
		if weekdayIn(rng.Start.Weekday(), params.Weekdays) && rng.Nights() < params.MinNights {
			return false, fmt.Sprintf("check-in on %s requires at least %d nights", rng.Start.Weekday(), params.MinNights)
		}
	case models.RuleBlackoutWeekday:
		if weekdayIn(rng.Start.Weekday(), params.Weekdays) {
			return false, fmt.Sprintf("check-in not allowed on %s", rng.Start.Weekday())
		}
	case models.RuleSeasonalMinNights:
		season, err := seasonRange(params)
		if err != nil {
			log.Printf("rule %d has malformed season dates, skipping: %v", rule.ID, err)
			return true, ""
		}
		if rng.Overlaps(season) && rng.Nights() < params.MinNights {
			return false, fmt.Sprintf("stays overlapping %s..%s require at least %d nights",
				params.StartDate, params.EndDate, params.MinNights)
		}
	default:
		log.Printf("unknown rule type %q on rule %d, skipping", rule.RuleType, rule.ID)
	}
	return true, ""
}

func weekdayIn(day time.Weekday, weekdays []int) bool {
	for _, w := range weekdays {
		if int(day) == w {
			return true
		}
	}
	return false
}

func seasonRange(params ruleParams) (utils.DateRange, error) {
	start, err := time.Parse(utils.DateFormat, params.StartDate)
	if err != nil {
		return utils.DateRange{}, err
	}
	end, err := time.Parse(utils.DateFormat, params.EndDate)
	if err != nil {
		return utils.DateRange{}, err
	}
	return utils.NewDateRange(start, end), nil
}

type RuleRequest struct {
	RoomID   *uint
	Name     string
	RuleType string
	Params   json.RawMessage
	Priority int
	IsActive bool
}

func validRuleType(t string) bool {
	switch t {
	case models.RuleMinNights, models.RuleMaxNights, models.RuleWeekdayMinNights,
		models.RuleBlackoutWeekday, models.RuleSeasonalMinNights:
		return true
	}
	return false
}

func (s *RuleService) CreateRule(companyID uint, req RuleRequest) (*models.AvailabilityRule, error) {
	if !validRuleType(req.RuleType) {
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrValidation, req.RuleType)
	}
	var params ruleParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, fmt.Errorf("%w: malformed rule params", ErrValidation)
		}
	}
	rule := models.AvailabilityRule{
		CompanyID: companyID,
		RoomID:    req.RoomID,
		Name:      req.Name,
		RuleType:  req.RuleType,
		Params:    datatypes.JSON(req.Params),
		Priority:  req.Priority,
		IsActive:  req.IsActive,
	}
	if err := storage.DB.Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RuleService) UpdateRule(companyID, ruleID uint, req RuleRequest) (*models.AvailabilityRule, error) {
	if !validRuleType(req.RuleType) {
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrValidation, req.RuleType)
	}
	var rule models.AvailabilityRule
	if err := storage.DB.Where("company_id = ?", companyID).First(&rule, ruleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: rule %d", ErrNotFound, ruleID)
		}
		return nil, err
	}
	rule.RoomID = req.RoomID
	rule.Name = req.Name
	rule.RuleType = req.RuleType
	rule.Params = datatypes.JSON(req.Params)
	rule.Priority = req.Priority
	rule.IsActive = req.IsActive
	if err := storage.DB.Save(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RuleService) DeleteRule(companyID, ruleID uint) error {
	res := storage.DB.Where("company_id = ?", companyID).Delete(&models.AvailabilityRule{}, ruleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: rule %d", ErrNotFound, ruleID)
	}
	return nil
}

func (s *RuleService) ListRules(companyID uint, roomID *uint) ([]models.AvailabilityRule, error) {
	q := storage.DB.Where("company_id = ?", companyID)
	if roomID != nil {
		q = q.Where("room_id = ? OR room_id IS NULL", *roomID)
	}
	var rules []models.AvailabilityRule
	if err := q.Order("priority DESC, id ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
