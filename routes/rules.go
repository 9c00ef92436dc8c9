package routes

import (
	"encoding/json"

	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

var ruleService = services.NewRuleService()

func CreateRule(ctx iris.Context) {
	var input RuleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	rule, err := ruleService.CreateRule(utils.CompanyID(ctx), services.RuleRequest{
		RoomID:   input.RoomID,
		Name:     input.Name,
		RuleType: input.RuleType,
		Params:   input.Params,
		Priority: input.Priority,
		IsActive: input.IsActive == nil || *input.IsActive,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "rule.create", "availability_rule", rule.ID, nil, rule)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(rule)
}

func UpdateRule(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input RuleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	rule, err := ruleService.UpdateRule(utils.CompanyID(ctx), id, services.RuleRequest{
		RoomID:   input.RoomID,
		Name:     input.Name,
		RuleType: input.RuleType,
		Params:   input.Params,
		Priority: input.Priority,
		IsActive: input.IsActive == nil || *input.IsActive,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "rule.update", "availability_rule", rule.ID, nil, rule)
	ctx.JSON(rule)
}

func DeleteRule(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	if err := ruleService.DeleteRule(utils.CompanyID(ctx), id); err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "rule.delete", "availability_rule", id, nil, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func GetRules(ctx iris.Context) {
	rules, err := ruleService.ListRules(utils.CompanyID(ctx), optionalRoomID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(rules)
}

// ValidateStay dry-runs the rule engine for a candidate stay without booking.
func ValidateStay(ctx iris.Context) {
	roomID := ctx.Params().GetUintDefault("roomID", 0)
	checkIn, ok := parseDate(ctx.URLParam("checkIn"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be YYYY-MM-DD", ctx)
		return
	}
	checkOut, ok := parseDate(ctx.URLParam("checkOut"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be YYYY-MM-DD", ctx)
		return
	}

	err := ruleService.ValidateAvailabilityRules(utils.CompanyID(ctx), roomID, checkIn, checkOut)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"valid": true})
}

type RuleInput struct {
	RoomID   *uint           `json:"roomID"` // nil applies to every room
	Name     string          `json:"name" validate:"required,max=256"`
	RuleType string          `json:"ruleType" validate:"required"`
	Params   json.RawMessage `json:"params" validate:"required"`
	Priority int             `json:"priority"`
	IsActive *bool           `json:"isActive"`
}
