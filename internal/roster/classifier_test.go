package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(2025)

	tests := []struct {
		name string
		cell string
		want Classification
	}{
		{"plain shift", "1308", Classification{Primary: "1308"}},
		{"shift with acronym", "708\nENF", Classification{Primary: "708", Secondary: "ENF"}},
		{"vacation first", "V 708", Classification{Primary: "V", Vacation: true}},
		{"vacation last", "708 VAC", Classification{Primary: "V", Vacation: true}},
		{"vacation keeps acronym", "ENF V", Classification{Primary: "V", Secondary: "ENF", Vacation: true}},
		{"first number wins", "708 1308", Classification{Primary: "708"}},
		{"second number stops scan", "708 1308 ENF", Classification{Primary: "708"}},
		{"acronym alone", "ENF", Classification{}},
		{"first acronym wins", "BAJA ENF 708", Classification{Primary: "708", Secondary: "BAJA"}},
		{"acronym alias", "L.D. 900", Classification{Primary: "900", Secondary: "DLD"}},
		{"marriage alias", "MTRL 900", Classification{Primary: "900", Secondary: "MTRI"}},
		{"garbage only", "NORM [+] DE", Classification{}},
		{"garbage around shift", "[] 1308 NORM", Classification{Primary: "1308"}},
		{"year excluded", "2025", Classification{}},
		{"neighbour year excluded", "2024 708", Classification{Primary: "708"}},
		{"time is not a shift", "08:00 1308", Classification{Primary: "1308"}},
		{"short number ignored", "12 708", Classification{Primary: "708"}},
		{"punctuation stripped", "(708)", Classification{Primary: "708"}},
		{"empty", "", Classification{}},
		{"lower case", "v", Classification{Primary: "V", Vacation: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.cell))
		})
	}
}

func TestClassification_Code(t *testing.T) {
	assert.Equal(t, "708 ENF", Classification{Primary: "708", Secondary: "ENF"}.Code())
	assert.Equal(t, "1308", Classification{Primary: "1308"}.Code())
	assert.True(t, Classification{}.Empty())
}

func TestSplitCode_RoundTrip(t *testing.T) {
	c := NewClassifier(2025)

	primary, secondary := SplitCode("708 ENF")
	assert.Equal(t, "708", primary)
	assert.Equal(t, "ENF", secondary)

	again := c.Classify("708 ENF")
	assert.Equal(t, "708 ENF", again.Code())
	assert.Equal(t, primary, again.Primary)
	assert.Equal(t, secondary, again.Secondary)
}

func TestSplitCode(t *testing.T) {
	p, s := SplitCode("")
	assert.Empty(t, p)
	assert.Empty(t, s)

	p, s = SplitCode("V")
	assert.Equal(t, "V", p)
	assert.Empty(t, s)
}

func TestResolveYear(t *testing.T) {
	assert.Equal(t, 2025, ResolveYear(2025))
	assert.Greater(t, ResolveYear(0), 2000)
}
