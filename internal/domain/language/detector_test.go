package language

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestDetect_DominantLanguage(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    Locale
	}{
		{
			name:    "spanish supermarket",
			samples: []string{"Leche entera 1L", "Huevos camperos x12", "Jamón serrano", "Queso curado"},
			want:    ES,
		},
		{
			name:    "english grocery",
			samples: []string{"Semi skimmed milk", "Free range eggs", "Sliced bread", "Cheddar cheese"},
			want:    EN,
		},
		{
			name:    "portuguese",
			samples: []string{"Leite meio gordo", "Ovos classe M", "Queijo flamengo", "Água das pedras"},
			want:    PT,
		},
		{
			name:    "german",
			samples: []string{"Vollmilch 3,5%", "Eier Bodenhaltung", "Käse Gouda", "Brot Vollkorn"},
			want:    DE,
		},
		{
			name:    "catalan",
			samples: []string{"Llet sencera", "Ous de pagès", "Formatge tendre"},
			want:    CA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Detect(tt.samples)
			assert.Equal(t, tt.want, res.Locale, "scores: %v", res.Scores)
			assert.GreaterOrEqual(t, res.Score, MinConfidence)
		})
	}
}

func TestDetect_BelowThresholdIsUnknown(t *testing.T) {
	samples := []string{"Leche"} // weight 2 only
	for i := 0; i < 10; i++ {
		samples = append(samples, fmt.Sprintf("SKU %s", gofakeit.Numerify("######")))
	}

	res := Detect(samples)
	assert.Equal(t, Unknown, res.Locale)
	assert.Equal(t, 2, res.Scores[ES])
}

func TestDetect_EmptyInput(t *testing.T) {
	assert.Equal(t, Unknown, DetectLocale(nil))
	assert.Equal(t, Unknown, DetectLocale([]string{"", "   "}))
}

func TestDetect_TieKeepsListOrder(t *testing.T) {
	// AGUA scores 1 for both es and pt.
	res := Detect([]string{"agua", "agua", "agua"})
	assert.Equal(t, res.Scores[ES], res.Scores[PT])
	assert.Equal(t, ES, res.Locale)
}

func TestDetect_OnlyFirstSamplesCount(t *testing.T) {
	samples := make([]string, 0, MaxSamples+5)
	for i := 0; i < MaxSamples; i++ {
		samples = append(samples, "item "+strings.Repeat("x", i%5))
	}
	samples = append(samples, "milk", "eggs", "bread", "cheese", "beer")

	assert.Equal(t, Unknown, DetectLocale(samples))
}

func TestParseLocale(t *testing.T) {
	loc, ok := ParseLocale(" PT ")
	assert.True(t, ok)
	assert.Equal(t, PT, loc)

	loc, ok = ParseLocale("sv")
	assert.False(t, ok)
	assert.Equal(t, Unknown, loc)
}
