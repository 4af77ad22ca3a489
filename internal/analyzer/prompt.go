package analyzer

import (
	"strings"

	"github.com/yildizm/ProtoLens/internal/report"
	"github.com/yildizm/go-promptfmt"
)

// ProtocolCodeHeader prefixes the protocol text in the second request segment
const ProtocolCodeHeader = "PROTOCOL CODE:\n"

const systemRole = "You are an expert Opentrons robot simulator. Analyze the following Python protocol code for an OT-2 or Flex robot."

const goal = "Your goal is to produce strictly accurate, deterministic counts and sequential action logs for the protocol. Do not estimate or summarize where an exact count is possible."

const channelRules = `CRITICAL RULE ON CHANNELS:
- Infer the channel count from the pipette name: 'p300_single' -> 1, 'p300_multi' -> 8, 'p1000_96' -> 96.
- Liquid volumes are multiplied by channels. Aspirating 10uL with a 96-channel pipette moves 960uL.
- Tips are multiplied by channels. One pick_up_tip on an 8-channel pipette uses 8 tips.`

// instructionSections are the seven numbered parts of the analysis request
var instructionSections = []string{
	`1. PROCEDURE: Write a sequential, plain-language list of what the protocol does, as a layman would describe it.`,
	`2. MECHANICAL BREAKDOWN: Count movements and homing per axis using "Gantry X", "Gantry Y", "Pipette Left Z" and "Pipette Right Z". INCLUDE "Gripper" when the protocol moves labware with it. For each axis provide an 'actions' list with entries such as "Move to (100, 200)".`,
	`3. LIQUID & PIPETTES: Report one entry per pipette and tip type. Count aspirate, dispense, mix and blowout. Provide a 'logs' array with EVERY liquid action in order.`,
	`4. AUXILIARY MOTIONS: Group mix, blow_out, touch_tip and air_gap actions. Report whether each ran with a tip, and provide logs.`,
	`5. TIP USAGE: Report the total number of individual tips used per tip rack type (pickups multiplied by channels), with logs.`,
	`6. CUSTOM ACTIONS: List overrides of default parameters such as flow_rate, well offsets and speed, with line numbers. Do not list duplicate custom actions produced by a loop; describe them once and note "Multiple times".`,
	`7. MODULES: For each hardware module report engagements, lid open/close, temperature changes and latch open/close, with logs such as "Set Temp to 4C", "Heater Shaker Open Latch" or "Shake at 1000 RPM for 30s".`,
}

// ProtocolPattern builds the fixed instruction prompt for protocol analysis
type ProtocolPattern struct {
	promptfmt.BasePattern
}

// NewProtocolPattern creates the protocol analysis pattern
func NewProtocolPattern() *ProtocolPattern {
	return &ProtocolPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Simulates an Opentrons protocol and reports deterministic counts and action logs",
			Tags:        []string{"opentrons", "protocol-analysis", "liquid-handling"},
		},
	}
}

// Build assembles the instruction prompt. The prompt is identical for every
// protocol; the code itself travels in a separate segment.
func (p *ProtocolPattern) Build() *promptfmt.Prompt {
	return promptfmt.New().
		System(systemRole).
		User("%s", goal).
		AddContext("channels", channelRules).
		AddContext("sections", strings.Join(instructionSections, "\n\n")).
		ExpectJSON(&report.Report{}).
		Build()
}

// codeSegment wraps the protocol text verbatim
func codeSegment(text string) string {
	return ProtocolCodeHeader + text
}
