package report

import "github.com/yildizm/ProtoLens/internal/ai"

// RequiredFields are the top-level keys every response must carry
var RequiredFields = []string{
	"procedure_steps", "pipette_stats", "total_aspirated_ul", "total_dispensed_ul",
	"total_tip_pickups", "tip_usage_breakdown",
	"auxiliary_motions",
	"axes", "summary", "labware", "modules", "module_stats", "api_commands", "custom_actions",
}

func logSchema(fields ...string) *ai.Schema {
	all := map[string]*ai.Schema{
		"description": ai.String(),
		"volume_ul":   ai.Number(),
		"location":    ai.String(),
		"details":     ai.String(),
	}
	props := make(map[string]*ai.Schema, len(fields))
	for _, f := range fields {
		props[f] = all[f]
	}
	return ai.ArrayOf(ai.Object(props))
}

func placementSchema() *ai.Schema {
	return ai.ArrayOf(ai.Object(map[string]*ai.Schema{
		"name":  ai.String(),
		"model": ai.String(),
		"slot":  ai.String(),
	}))
}

// Schema returns the response schema declared to the analysis service
func Schema() *ai.Schema {
	return ai.Object(map[string]*ai.Schema{
		"procedure_steps": ai.ArrayOf(ai.String()),
		"pipette_stats": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"pipette_name":        ai.String(),
			"mount":               ai.String(),
			"channels":            ai.Integer().Describe("Number of channels (1, 8, or 96)"),
			"tip_type":            ai.String(),
			"aspirated_volume_ul": ai.Number().Describe("Total volume (command vol * channels)"),
			"dispensed_volume_ul": ai.Number().Describe("Total volume (command vol * channels)"),
			"aspirate_count":      ai.Integer(),
			"dispense_count":      ai.Integer(),
			"mix_count":           ai.Integer(),
			"blowout_count":       ai.Integer(),
			"logs":                logSchema("description", "volume_ul", "location"),
		})),
		"total_aspirated_ul": ai.Number(),
		"total_dispensed_ul": ai.Number(),
		"total_tip_pickups":  ai.Integer(),
		"tip_usage_breakdown": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"tip_rack": ai.String(),
			"count":    ai.Integer().Describe("Total individual tips used"),
			"logs":     logSchema("description", "location"),
		})),
		"auxiliary_motions": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"action":     ai.String(),
			"count":      ai.Integer(),
			"tip_status": ai.String(),
			"tip_type":   ai.String(),
			"volume_ul":  ai.Number(),
			"logs":       logSchema("description", "volume_ul", "location"),
		})),
		"summary": ai.String(),
		"custom_actions": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"description": ai.String(),
			"line_number": ai.Integer(),
		})),
		"labware": placementSchema(),
		"modules": placementSchema(),
		"module_stats": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"module_name":       ai.String(),
			"slot":              ai.String(),
			"model":             ai.String(),
			"lid_open_count":    ai.Integer(),
			"lid_close_count":   ai.Integer(),
			"latch_open_count":  ai.Integer(),
			"latch_close_count": ai.Integer(),
			"temp_change_count": ai.Integer(),
			"engagements_count": ai.Integer(),
			"actions": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
				"type":    ai.String(),
				"count":   ai.Integer(),
				"details": ai.String(),
			})),
			"logs": logSchema("description", "details", "location"),
		})),
		"api_commands": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"command": ai.String(),
			"count":   ai.Integer(),
		})),
		"axes": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"axis":           ai.String().Describe("e.g. Gantry X, Pipette Left Z, Gripper"),
			"movement_count": ai.Integer(),
			"homing_count":   ai.Integer(),
			"actions":        logSchema("description", "details"),
		})),
	}, RequiredFields...)
}
