package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	tests := []struct {
		t    FeatureType
		kind string
		want float64
	}{
		{FeatureIn, "input", 1000},
		{FeatureIn, "alarm", 1},
		{FeatureTemp, "crit", 1000},
		{FeatureTemp, "crit_alarm", 1},
		{FeatureTemp, "type", 1},
		{FeatureTemp, "fault", 1},
		{FeatureFan, "input", 1},
		{FeatureFan, "div", 1},
		{FeaturePower, "cap", 1000000},
		{FeatureCurr, "max", 1000},
		{FeatureHumidity, "input", 1000},
		{FeatureIntrusion, "alarm", 1},
	}

	for _, tt := range tests {
		t.Run(tt.t.String()+"_"+tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, scale(tt.t, tt.kind))
		})
	}
}

func TestRawValue(t *testing.T) {
	tests := []struct {
		attr    string
		value   float64
		want    string
		wantErr bool
	}{
		{attr: "temp1_max", value: 60, want: "60000"},
		{attr: "in0_min", value: 1.7, want: "1700"},
		{attr: "in0_max", value: -0.25, want: "-250"},
		{attr: "fan1_min", value: 3000, want: "3000"},
		{attr: "fan1_div", value: 4, want: "4"},
		{attr: "power1_cap", value: 95.5, want: "95500000"},
		{attr: "temp1_label", value: 1, wantErr: true},
		{attr: "pwm1", value: 128, wantErr: true},
		{attr: "temp_max", value: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			got, err := rawValue(tt.attr, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeatureTypeString(t *testing.T) {
	assert.Equal(t, "temp", FeatureTemp.String())
	assert.Equal(t, "intrusion", FeatureIntrusion.String())
	assert.Equal(t, "unknown", FeatureType(42).String())
}

func TestFeatureSub(t *testing.T) {
	f := Feature{Subfeatures: []Subfeature{{Kind: "input", Value: 3}, {Kind: "max", Value: 5}}}

	v, ok := f.Sub("max")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = f.Sub("min")
	assert.False(t, ok)
}

func TestReadFeaturesMissingDir(t *testing.T) {
	_, err := readFeatures(t.TempDir() + "/gone")
	assert.ErrorIs(t, err, ErrAccessRead)
}
