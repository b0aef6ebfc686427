package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/countryfacts/storage/types"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestRender_PNG(t *testing.T) {
	t.Parallel()

	t.Run("empty repository", func(t *testing.T) {
		t.Parallel()

		raw, err := PNG(&Summary{
			Stats: &types.Stats{},
		})
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)

		assert.Equal(t, imageWidth, img.Bounds().Dx())
		assert.NotZero(t, img.Bounds().Dy())
	})

	t.Run("populated repository", func(t *testing.T) {
		t.Parallel()

		refreshedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

		summary := &Summary{
			Stats: &types.Stats{
				TotalCountries:  3,
				LastRefreshedAt: &refreshedAt,
				Regions: map[string]int64{
					"Africa":   2,
					"Americas": 1,
				},
			},
			TopGDP: []*types.Country{
				{
					Name:         "Nigeria",
					EstimatedGDP: floatPtr(1000),
				},
				{
					Name: "Chad",
				},
			},
		}

		raw, err := PNG(summary)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)

		// More content means a taller image
		empty, err := PNG(&Summary{Stats: &types.Stats{}})
		require.NoError(t, err)

		emptyImg, err := png.Decode(bytes.NewReader(empty))
		require.NoError(t, err)

		assert.Greater(t, img.Bounds().Dy(), emptyImg.Bounds().Dy())
	})
}

func TestRender_SummaryLines(t *testing.T) {
	t.Parallel()

	t.Run("missing refresh timestamp", func(t *testing.T) {
		t.Parallel()

		lines := summaryLines(&Summary{
			Stats: &types.Stats{},
		})

		assert.Contains(t, lines, "Last refreshed: never")
	})

	t.Run("regions sorted", func(t *testing.T) {
		t.Parallel()

		lines := summaryLines(&Summary{
			Stats: &types.Stats{
				Regions: map[string]int64{
					"Europe": 1,
					"Africa": 2,
				},
			},
		})

		var africaIdx, europeIdx int

		for i, line := range lines {
			switch line {
			case "  Africa: 2":
				africaIdx = i
			case "  Europe: 1":
				europeIdx = i
			}
		}

		require.NotZero(t, africaIdx)
		require.NotZero(t, europeIdx)
		assert.Less(t, africaIdx, europeIdx)
	})
}
