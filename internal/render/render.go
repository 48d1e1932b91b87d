// Package render turns calculation results into display rows.
package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RMahshie/wirelesscalc/pkg/models"
)

// View is the renderable form of a calculation response
type View struct {
	Rows        []models.ResultRow
	Explanation string
}

var labels = map[string]string{
	"sampler_output":                  "Sampler Output",
	"quantizer_output":                "Quantizer Output",
	"source_encoder_output":           "Source Encoder Output",
	"channel_encoder_output":          "Channel Encoder Output",
	"interleaver_output":              "Interleaver Output",
	"burst_formatting":                "Burst Formatting",
	"data_rate_resource_element":      "Data Rate per Resource Element",
	"bits_per_ofdm_symbol":            "Bits per OFDM Symbol",
	"bits_per_resource_block":         "Bits per Resource Block",
	"max_transmission":                "Max Transmission",
	"spectral_efficiency":             "Spectral Efficiency",
	"max_distance":                    "Max Distance",
	"max_cell_size":                   "Max Cell Size",
	"number_of_cells":                 "Number of Cells",
	"traffic_load_system":             "Traffic Load in Whole System",
	"traffic_load_cell":               "Traffic Load per Cell",
	"cluster_cells":                   "Cells per Cluster",
	"min_carriers":                    "Minimum Carriers",
	"transmitted_power_ap":            "Transmitted Power (Access Point)",
	"received_signal_strength_client": "Received Signal Strength (Client)",
	"transmitted_power_client":        "Transmitted Power (Client)",
	"received_signal_strength_ap":     "Received Signal Strength (Access Point)",
	"free_space_loss":                 "Free Space Loss",
	"link_margin_ap_to_client":        "Link Margin (AP to Client)",
	"link_margin_client_to_ap":        "Link Margin (Client to AP)",
	"status":                          "Status",
}

// Render maps a response to a view. Rows keep the order of the results.
func Render(resp *models.CalculationResponse) View {
	if resp == nil {
		return View{}
	}
	rows := make([]models.ResultRow, 0, len(resp.Results))
	for _, e := range resp.Results {
		rows = append(rows, models.ResultRow{
			Key:   e.Key,
			Label: Label(e.Key),
			Value: Value(e.Value),
		})
	}
	return View{Rows: rows, Explanation: resp.Explanation}
}

// Label returns the display label for a result key. Keys outside the fixed
// table have underscores replaced by spaces and each word capitalized.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

// titleWords upper-cases the first character of every run of ASCII word
// characters. Other runes break words and are left as they are.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		word := isWordASCII(r)
		if word && !inWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		inWord = word
		b.WriteRune(r)
	}
	return b.String()
}

func isWordASCII(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Value formats a result value for display
func Value(v models.ResultValue) string {
	if !v.IsNumber {
		return v.Text
	}
	return Number(v.Number)
}

// Number scales a number to M or K with two decimals
func Number(n float64) string {
	if n == 0 {
		// drops the sign of -0
		n = 0
	}
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(n/1_000_000, 'f', 2, 64) + " M"
	case n >= 1_000:
		return strconv.FormatFloat(n/1_000, 'f', 2, 64) + " K"
	default:
		return strconv.FormatFloat(n, 'f', 2, 64)
	}
}

// Width returns the widest label in the view, used by text front ends to align columns
func (v View) Width() int {
	w := 0
	for _, r := range v.Rows {
		if n := utf8.RuneCountInString(r.Label); n > w {
			w = n
		}
	}
	return w
}
