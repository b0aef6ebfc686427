// Package render draws the repository summary statistics
// into a PNG artifact.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sort"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sig-0/countryfacts/storage/types"
)

const (
	imageWidth = 640
	lineHeight = 18
	margin     = 24
)

var (
	backgroundColor = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	textColor       = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// Summary is the statistics contract consumed by the renderer
type Summary struct {
	Stats  *types.Stats
	TopGDP []*types.Country
}

// PNG renders the summary into a PNG image
func PNG(s *Summary) ([]byte, error) {
	lines := summaryLines(s)

	height := margin*2 + len(lines)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		drawer.Dot = fixed.P(margin, margin+(i+1)*lineHeight)
		drawer.DrawString(line)
	}

	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode summary image: %w", err)
	}

	return buf.Bytes(), nil
}

// summaryLines lays out the summary as text lines
func summaryLines(s *Summary) []string {
	lastRefreshed := "never"
	if s.Stats.LastRefreshedAt != nil {
		lastRefreshed = s.Stats.LastRefreshedAt.UTC().Format(time.RFC3339)
	}

	lines := []string{
		"Country Summary",
		"",
		fmt.Sprintf("Total countries: %d", s.Stats.TotalCountries),
		fmt.Sprintf("Last refreshed: %s", lastRefreshed),
	}

	if len(s.TopGDP) > 0 {
		lines = append(lines, "", "Top countries by estimated GDP:")

		for i, country := range s.TopGDP {
			gdp := "-"
			if country.EstimatedGDP != nil {
				gdp = fmt.Sprintf("%.2f", *country.EstimatedGDP)
			}

			lines = append(
				lines,
				fmt.Sprintf("  %d. %s - %s", i+1, country.Name, gdp),
			)
		}
	}

	if len(s.Stats.Regions) > 0 {
		lines = append(lines, "", "Regions:")

		regions := make([]string, 0, len(s.Stats.Regions))
		for region := range s.Stats.Regions {
			regions = append(regions, region)
		}

		sort.Strings(regions)

		for _, region := range regions {
			lines = append(
				lines,
				fmt.Sprintf("  %s: %d", region, s.Stats.Regions[region]),
			)
		}
	}

	return lines
}
