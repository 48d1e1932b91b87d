package scenario

import (
	"errors"
	"fmt"

	"github.com/RMahshie/wirelesscalc/pkg/models"
)

// ErrUnknownScenario is returned when a scenario name is not in the catalog
var ErrUnknownScenario = errors.New("unknown scenario")

// Definition ties a scenario to its form fields and service endpoint
type Definition struct {
	Scenario models.Scenario
	Title    string
	Path     string
	Fields   []models.Field
}

// Info returns the catalog entry in its API shape
func (d Definition) Info() models.ScenarioInfo {
	fields := make([]models.Field, len(d.Fields))
	copy(fields, d.Fields)
	return models.ScenarioInfo{
		Scenario: d.Scenario,
		Title:    d.Title,
		Path:     d.Path,
		Fields:   fields,
	}
}

func integer(name, inputID, label, unit string) models.Field {
	return models.Field{Name: name, InputID: inputID, Label: label, Unit: unit, Kind: models.FieldInteger}
}

func float(name, inputID, label, unit string) models.Field {
	return models.Field{Name: name, InputID: inputID, Label: label, Unit: unit, Kind: models.FieldFloat}
}

var definitions = []Definition{
	{
		Scenario: models.ScenarioWireless,
		Title:    "Wireless Communication System",
		Path:     "/api/calculate/wireless",
		Fields: []models.Field{
			float("bandwidth", "bandwidth", "Bandwidth", "Hz"),
			integer("quantization_bits", "quantization-bits", "Quantization Bits", "bits"),
			float("source_encoder_bits", "source-encoder-bits", "Source Encoder Rate", ""),
			float("channel_encoder", "channel-encoder", "Channel Encoder Rate", ""),
			integer("interleaver_bits", "interleaver-bits", "Interleaver Bits", "bits"),
			integer("block_size", "block-size", "Block Size", "bits"),
			integer("overhead_per_block", "overhead-per-block", "Overhead per Block", "bits"),
		},
	},
	{
		Scenario: models.ScenarioOFDM,
		Title:    "OFDM Systems",
		Path:     "/api/calculate/ofdm",
		Fields: []models.Field{
			float("bw_resource_block", "bw-resource-block", "Resource Block Bandwidth", "kHz"),
			float("subcarrier_spacing", "subcarrier-spacing", "Subcarrier Spacing", "kHz"),
			integer("ofdm_symbols", "ofdm-symbols", "OFDM Symbols", ""),
			float("rb_duration", "rb-duration", "Resource Block Duration", "ms"),
			integer("modulated_bits", "modulated-bits", "Modulation Order", ""),
			integer("parallel_rb", "parallel-rb", "Parallel Resource Blocks", ""),
		},
	},
	{
		Scenario: models.ScenarioLinkBudget,
		Title:    "Link Budget",
		Path:     "/api/calculate/linkbudget",
		Fields: []models.Field{
			float("access_point_transmit_power", "ap-tx-power", "AP Transmit Power", "dBm"),
			float("access_point_antenna_gain", "ap-antenna-gain", "AP Antenna Gain", "dBi"),
			float("access_point_receive_sensitivity", "ap-rx-sensitivity", "AP Receive Sensitivity", "dBm"),
			float("client_transmit_power", "client-tx-power", "Client Transmit Power", "dBm"),
			float("client_antenna_gain", "client-antenna-gain", "Client Antenna Gain", "dBi"),
			float("client_receive_sensitivity", "client-rx-sensitivity", "Client Receive Sensitivity", "dBm"),
			float("cable_loss_each_side", "cable-loss-each-side", "Cable Loss (each side)", "dB"),
			float("distance", "distance", "Distance", "km"),
			float("frequency", "frequency", "Frequency", "GHz"),
		},
	},
	{
		Scenario: models.ScenarioCellular,
		Title:    "Cellular System",
		Path:     "/api/calculate/cellular",
		Fields: []models.Field{
			integer("time_slots_per_carrier", "time-slots-per-carrier", "Time Slots per Carrier", ""),
			float("total_area", "total-area", "Total Area", "m²"),
			integer("max_number_of_users", "max-number-of-users", "Max Number of Users", ""),
			integer("number_of_calls_per_day", "number-of-calls-per-day", "Calls per Day", ""),
			float("call_duration", "call-duration", "Call Duration", "min"),
			float("gos", "gos", "Grade of Service", ""),
			float("sir", "sir", "Signal to Interference Ratio", "dB"),
			float("p0", "p0", "Reference Power P0", "dB"),
			float("receiver_sensitivity", "receiver-sensitivity", "Receiver Sensitivity", "µW"),
			float("d0", "d0", "Reference Distance", "m"),
			float("path_loss_exponent", "path-loss-exponent", "Path Loss Exponent", ""),
			integer("co_channel_interferers", "co-channel-interferers", "Co-channel Interferers", ""),
		},
	},
}

// All returns every scenario definition in display order
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds a scenario definition by identifier
func Lookup(s models.Scenario) (Definition, error) {
	for _, d := range definitions {
		if d.Scenario == s {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Parse converts a user-supplied name into a scenario identifier
func Parse(name string) (models.Scenario, error) {
	d, err := Lookup(models.Scenario(name))
	if err != nil {
		return "", err
	}
	return d.Scenario, nil
}
