// Package report holds the structured protocol analysis returned by the
// analysis service and the presentation-only views derived from it.
package report

// Report is one complete analysis of a protocol script. It is produced once
// per request, read for rendering, and never modified locally.
type Report struct {
	ProcedureSteps    []string       `json:"procedure_steps"`
	PipetteStats      []PipetteStat  `json:"pipette_stats"`
	TotalAspiratedUL  float64        `json:"total_aspirated_ul"`
	TotalDispensedUL  float64        `json:"total_dispensed_ul"`
	TotalTipPickups   int            `json:"total_tip_pickups"`
	TipUsageBreakdown []TipUsage     `json:"tip_usage_breakdown"`
	AuxiliaryMotions  []AuxMotion    `json:"auxiliary_motions"`
	Axes              []AxisStat     `json:"axes"`
	Summary           string         `json:"summary"`
	Labware           []LabwareItem  `json:"labware"`
	Modules           []LabwareItem  `json:"modules"`
	ModuleStats       []ModuleStat   `json:"module_stats"`
	APICommands       []CommandStat  `json:"api_commands"`
	CustomActions     []CustomAction `json:"custom_actions"`
}

// ActionLog is one chronological entry in a per-pipette, per-rack, per-module
// or per-axis log.
type ActionLog struct {
	Description string   `json:"description"`
	VolumeUL    *float64 `json:"volume_ul,omitempty"`
	Location    string   `json:"location,omitempty"`
	Details     string   `json:"details,omitempty"`
}

// PipetteStat aggregates liquid handling for one pipette and tip type.
// Volumes are already multiplied by the channel count.
type PipetteStat struct {
	PipetteName       string      `json:"pipette_name"`
	Mount             string      `json:"mount"`
	Channels          int         `json:"channels"`
	TipType           string      `json:"tip_type"`
	AspiratedVolumeUL float64     `json:"aspirated_volume_ul"`
	DispensedVolumeUL float64     `json:"dispensed_volume_ul"`
	AspirateCount     int         `json:"aspirate_count"`
	DispenseCount     int         `json:"dispense_count"`
	MixCount          int         `json:"mix_count"`
	BlowoutCount      int         `json:"blowout_count"`
	Logs              []ActionLog `json:"logs"`
}

// TipUsage counts individual tips taken from one rack type
type TipUsage struct {
	TipRack string      `json:"tip_rack"`
	Count   int         `json:"count"`
	Logs    []ActionLog `json:"logs"`
}

// AuxMotion groups non-transfer actions (mix, blow_out, touch_tip, air_gap)
type AuxMotion struct {
	Action    string      `json:"action"`
	Count     int         `json:"count"`
	TipStatus string      `json:"tip_status"`
	TipType   string      `json:"tip_type"`
	VolumeUL  float64     `json:"volume_ul"`
	Logs      []ActionLog `json:"logs"`
}

// ModuleAction summarizes one kind of module action
type ModuleAction struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Details string `json:"details"`
}

// ModuleStat aggregates hardware module activity
type ModuleStat struct {
	ModuleName       string         `json:"module_name"`
	Slot             string         `json:"slot"`
	Model            string         `json:"model"`
	LidOpenCount     int            `json:"lid_open_count"`
	LidCloseCount    int            `json:"lid_close_count"`
	LatchOpenCount   int            `json:"latch_open_count"`
	LatchCloseCount  int            `json:"latch_close_count"`
	TempChangeCount  int            `json:"temp_change_count"`
	EngagementsCount int            `json:"engagements_count"`
	Actions          []ModuleAction `json:"actions"`
	Logs             []ActionLog    `json:"logs"`
}

// AxisStat counts motion for one axis or mount, including the gripper
type AxisStat struct {
	Axis          string      `json:"axis"`
	MovementCount int         `json:"movement_count"`
	HomingCount   int         `json:"homing_count"`
	Actions       []ActionLog `json:"actions"`
}

// CommandStat is the frequency of one API command
type CommandStat struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
}

// CustomAction is a detected override of default instrument parameters
type CustomAction struct {
	Description string `json:"description"`
	LineNumber  *int   `json:"line_number,omitempty"`
}

// LabwareItem describes one deck placement
type LabwareItem struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Slot  string `json:"slot"`
}
