package session

// DefaultFilename is the editor filename before anything is loaded
const DefaultFilename = "example_protocol.py"

// DefaultProtocol is the example shown in a fresh editor
const DefaultProtocol = `from opentrons import protocol_api

metadata = {
    'apiLevel': '2.13',
    'protocolName': 'Simple Transfer',
    'description': 'A basic transfer example for analysis'
}

def run(protocol: protocol_api.ProtocolContext):
    tiprack = protocol.load_labware('opentrons_96_tiprack_300ul', '1')
    plate = protocol.load_labware('corning_96_wellplate_360ul_flat', '2')
    p300 = protocol.load_instrument('p300_single', 'right', tip_racks=[tiprack])

    # Simple loop to demonstrate motion
    for i in range(8):
        p300.pick_up_tip()
        p300.aspirate(100, plate.columns()[0][i])
        p300.dispense(100, plate.columns()[1][i])
        p300.mix(3, 50, plate.columns()[1][i])
        p300.blow_out()
        p300.drop_tip()
`
