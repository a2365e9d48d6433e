package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProximityInferencer_BindsNearestRange(t *testing.T) {
	inf := NewProximityInferencer(2025, 0)

	legend := inf.Infer("1308 Turno mañana 08:00-15:00")

	entry, ok := legend["1308"]
	require.True(t, ok)
	assert.Equal(t, KindWork, entry.Kind)
	assert.Equal(t, "08:00", entry.Start)
	assert.Equal(t, "15:00", entry.End)
	assert.InDelta(t, 7.0, entry.Hours, 0.001)
	assert.Equal(t, "Turno mañana", entry.Description)
	assert.Equal(t, SourceInferred, entry.Source)
}

func TestProximityInferencer_Interleaved(t *testing.T) {
	text := "LEYENDA\n708 - Mañana 07:00-15:00   1308: Tarde\n13.00 – 21.00\n2200 Noche 22:00-06:00"
	legend := NewProximityInferencer(2025, 0).Infer(text)

	assert.Equal(t, "07:00", legend["708"].Start)
	assert.Equal(t, "13:00", legend["1308"].Start)
	assert.Equal(t, "21:00", legend["1308"].End)

	night := legend["2200"]
	assert.InDelta(t, 8.0, night.Hours, 0.001)
	assert.InDelta(t, 8.0, night.NocturnalHours, 0.001)
}

func TestProximityInferencer_Window(t *testing.T) {
	text := "900 " + strings.Repeat("x", 400) + " 08:00-15:00"
	legend := NewProximityInferencer(2025, 0).Infer(text)
	_, ok := legend["900"]
	assert.False(t, ok)

	wide := NewProximityInferencer(2025, 500).Infer(text)
	assert.Equal(t, KindWork, wide["900"].Kind)
}

func TestProximityInferencer_RangeBeforeCodeIgnored(t *testing.T) {
	legend := NewProximityInferencer(2025, 0).Infer("08:00-15:00 708")
	_, ok := legend["708"]
	assert.False(t, ok)
}

func TestProximityInferencer_ExcludesYears(t *testing.T) {
	legend := NewProximityInferencer(2025, 0).Infer("CUADRANTE 2025 08:00-15:00")
	_, ok := legend["2025"]
	assert.False(t, ok)
}

func TestProximityInferencer_InvalidRangeLeavesCodeOpen(t *testing.T) {
	text := "708 99:00-15:00 otra vez 708 07:00-15:00"
	legend := NewProximityInferencer(2025, 0).Infer(text)
	assert.Equal(t, "07:00", legend["708"].Start)
}

func TestProximityInferencer_DefaultDescription(t *testing.T) {
	legend := NewProximityInferencer(2025, 0).Infer("708 07:00-15:00")
	assert.Equal(t, "Turno 07:00-15:00", legend["708"].Description)
}

func TestProximityInferencer_ManualVocabularyWins(t *testing.T) {
	legend := NewProximityInferencer(2025, 0).Infer("nada")

	v := legend["V"]
	assert.Equal(t, KindVacation, v.Kind)
	assert.Equal(t, SourceManual, v.Source)
	assert.Equal(t, KindAbsence, legend["ENF"].Kind)
	assert.Equal(t, KindWork, legend["NORM"].Kind)
}

func TestApplyManualVocabulary_KeepsTimes(t *testing.T) {
	in := Legend{
		"NORM": {Code: "NORM", Kind: KindUnknown, Start: "08:00", End: "15:00", Hours: 7, Source: SourceInferred},
	}

	out := ApplyManualVocabulary(in)

	assert.Equal(t, KindWork, out["NORM"].Kind)
	assert.Equal(t, "08:00", out["NORM"].Start)
	assert.InDelta(t, 7.0, out["NORM"].Hours, 0.001)
	assert.Equal(t, KindUnknown, in["NORM"].Kind, "input must not be mutated")
}

func TestLegend_Merge(t *testing.T) {
	base := Legend{
		"V":   {Code: "V", Kind: KindVacation, Source: SourceManual},
		"708": {Code: "708", Kind: KindWork, Hours: 8, Source: SourceInferred},
	}
	additions := Legend{
		"V":        {Code: "V", Kind: KindUnknown, Source: SourcePlaceholder},
		"708":      {Code: "708", Kind: KindWork, Hours: 9, Source: SourceUser},
		"1308 ENF": {Code: "1308 ENF", Kind: KindUnknown, Source: SourcePlaceholder},
	}

	merged := base.Merge(additions)

	assert.Equal(t, KindVacation, merged["V"].Kind)
	assert.InDelta(t, 9.0, merged["708"].Hours, 0.001)
	assert.Contains(t, merged, "1308 ENF")
	assert.Len(t, base, 2)
	assert.Equal(t, []string{"1308 ENF", "708", "V"}, merged.Codes())
}
