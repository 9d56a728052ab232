package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBMI(t *testing.T) {
	assert.Equal(t, 23.15, ComputeBMI(180, 75))
	assert.Equal(t, 24.69, ComputeBMI(180, 80))
	assert.Equal(t, 22.22, ComputeBMI(150, 50))
	assert.Equal(t, 0.0, ComputeBMI(0, 80))
	assert.Equal(t, 2000.0, ComputeBMI(50, 500))
	assert.Equal(t, 1000.0, ComputeBMI(70, 490))
	assert.Equal(t, 2.22, ComputeBMI(300, 20))

	for h := 50.0; h <= 300; h += 25 {
		for w := 20.0; w <= 500; w += 40 {
			m := h / 100
			want := float64(int(w/(m*m)*100+0.5)) / 100
			assert.InDelta(t, want, ComputeBMI(h, w), 0.0001, "h=%v w=%v", h, w)
		}
	}
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", BMICategory(17.2))
	assert.Equal(t, "Normal", BMICategory(23.15))
	assert.Equal(t, "Overweight", BMICategory(27))
	assert.Equal(t, "Obese", BMICategory(31))
	assert.Equal(t, "", BMICategory(0))
}

func TestProfilePatchApply(t *testing.T) {
	current := User{ID: 1, Name: "Ana", Country: "PT", Age: 30, Gender: "female", Height: 170, Weight: 60, BMI: ComputeBMI(170, 60)}

	name := "Ana Maria"
	next := ProfilePatch{Name: &name}.Apply(current)
	assert.Equal(t, "Ana Maria", next.Name)
	assert.Equal(t, current.BMI, next.BMI)
	assert.Equal(t, "PT", next.Country)

	weight := 75.0
	next = ProfilePatch{Weight: &weight}.Apply(current)
	assert.Equal(t, 75.0, next.Weight)
	assert.Equal(t, 170.0, next.Height)
	assert.Equal(t, ComputeBMI(170, 75), next.BMI)
}

func TestProfilePatchApplyRoundsMeasures(t *testing.T) {
	current := User{ID: 1, Height: 170, Weight: 60, BMI: ComputeBMI(170, 60)}

	height, weight := 180.126, 80.004
	next := ProfilePatch{Height: &height, Weight: &weight}.Apply(current)
	assert.Equal(t, 180.13, next.Height)
	assert.Equal(t, 80.0, next.Weight)
	assert.Equal(t, ComputeBMI(180.13, 80), next.BMI)
}

func TestProfilePatchNormalize(t *testing.T) {
	blank := "   "
	country := " NZ "
	p := ProfilePatch{Name: &blank, Country: &country}.Normalize()
	assert.Nil(t, p.Name)
	require.NotNil(t, p.Country)
	assert.Equal(t, "NZ", *p.Country)
}

func TestMacrosSub(t *testing.T) {
	got := Macros{Calories: 2000, Protein: 150, Carbs: 250, Fat: 65}.Sub(Macros{Calories: 2100, Protein: 10, Carbs: 20, Fat: 5})
	assert.Equal(t, Macros{Calories: -100, Protein: 140, Carbs: 230, Fat: 60}, got)
}

func TestDateJSONAndScan(t *testing.T) {
	d := DateOf(time.Date(2026, 3, 9, 23, 59, 0, 0, time.FixedZone("x", 5*3600)))
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-09"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Equal(d.Time))

	var scanned Date
	require.NoError(t, scanned.Scan([]byte("2026-03-09T00:00:00Z")))
	assert.Equal(t, "2026-03-09", scanned.String())
	assert.Error(t, scanned.Scan(42))
}
