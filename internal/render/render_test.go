package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/RMahshie/wirelesscalc/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_500_000, "1.50 M"},
		{1_000_000, "1.00 M"},
		{2_500, "2.50 K"},
		{1_000, "1.00 K"},
		{999_999, "1000.00 K"},
		{42, "42.00"},
		{95.32, "95.32"},
		{0, "0.00"},
		{math.Copysign(0, -1), "0.00"},
		{-2_500, "-2500.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Number(tt.in), "Number(%v)", tt.in)
	}
}

func TestValue(t *testing.T) {
	assert.Equal(t, "OK", Value(models.TextValue("OK")))
	assert.Equal(t, "1.50 M", Value(models.NumberValue(1_500_000)))
	assert.Equal(t, "", Value(models.TextValue("")))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"free_space_loss", "Free Space Loss"},
		{"traffic_load_system", "Traffic Load in Whole System"},
		{"link_margin_ap_to_client", "Link Margin (AP to Client)"},
		{"foo_bar", "Foo Bar"},
		{"snr_db", "Snr Db"},
		{"already Spaced", "Already Spaced"},
		{"x", "X"},
		{"émission_x", "éMission X"},
		{"2nd_stage", "2nd Stage"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.key), "Label(%q)", tt.key)
	}
}

func TestRender_LinkBudgetExample(t *testing.T) {
	var resp models.CalculationResponse
	body := `{"results": {"free_space_loss": 95.32, "status": "Link OK"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	got := Render(&resp)
	want := View{
		Rows: []models.ResultRow{
			{Key: "free_space_loss", Label: "Free Space Loss", Value: "95.32"},
			{Key: "status", Label: "Status", Value: "Link OK"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PreservesOrderAndExplanation(t *testing.T) {
	var resp models.CalculationResponse
	body := `{
		"success": true,
		"results": {"zeta": 1, "alpha": 2500, "mid": "x", "flag": true},
		"explanation": "The link closes with margin."
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	got := Render(&resp)
	want := View{
		Rows: []models.ResultRow{
			{Key: "zeta", Label: "Zeta", Value: "1.00"},
			{Key: "alpha", Label: "Alpha", Value: "2.50 K"},
			{Key: "mid", Label: "Mid", Value: "x"},
			{Key: "flag", Label: "Flag", Value: "true"},
		},
		Explanation: "The link closes with margin.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, got.Width())
}

func TestRender_NoResults(t *testing.T) {
	got := Render(&models.CalculationResponse{})
	assert.Empty(t, got.Rows)
	assert.Empty(t, got.Explanation)

	assert.Equal(t, View{}, Render(nil))
}
