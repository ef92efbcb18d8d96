package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

func TestResolve_Matches(t *testing.T) {
	queries := []string{
		"abhay",
		"  ABHAY  ",
		"Abhay Tiwari",
		"photos of abhay_d95",
		"who is abhay virus?",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got := Resolve(q)
			require.Len(t, got, 1)
			assert.Equal(t, "abhay-profile", got[0].ID)
			assert.Equal(t, domain.PhotoKindPersonal, got[0].Kind)
			assert.True(t, got[0].IsPersonal())
			assert.Equal(t, "From Instagram", got[0].Subtitle)
			assert.Empty(t, got[0].Links.DownloadLocation)
			assert.Equal(t, "https://www.instagram.com/abhay_d95/", got[0].Links.HTML)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, q := range []string{"", "   ", "nature", "abha", "a b h a y"} {
		assert.Empty(t, Resolve(q), q)
	}
}

func TestResolve_ReturnsFreshSlice(t *testing.T) {
	first := Resolve("abhay")
	first[0].ID = "mutated"

	second := Resolve("abhay")
	assert.Equal(t, "abhay-profile", second[0].ID)
}
