// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package normalize

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/shared"
	"github.com/l3montree-dev/sunshine/utils"
)

func discardDiagnostics() *shared.Diagnostics {
	return shared.NewDiagnostics(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ratings(r ...dtos.RatingRecord) *[]dtos.RatingRecord {
	return &r
}

func TestSeverityFromScore(t *testing.T) {
	cases := []struct {
		score    float64
		expected Severity
	}{
		{9.5, SeverityCritical},
		{9.0, SeverityCritical},
		{7.0, SeverityHigh},
		{8.9, SeverityHigh},
		{4.0, SeverityMedium},
		{0.1, SeverityLow},
		{0.0, SeverityInformation},
		{-1, SeverityInformation},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, SeverityFromScore(c.score), "score %v", c.score)
	}
}

func TestParseSeverity(t *testing.T) {
	t.Run("should be case insensitive", func(t *testing.T) {
		s, ok := ParseSeverity("HiGh")
		assert.True(t, ok)
		assert.Equal(t, SeverityHigh, s)
	})
	t.Run("should map info to information", func(t *testing.T) {
		s, ok := ParseSeverity("info")
		assert.True(t, ok)
		assert.Equal(t, SeverityInformation, s)
	})
	t.Run("should not recognise unknown or none", func(t *testing.T) {
		for _, v := range []string{"unknown", "none", "clean", ""} {
			_, ok := ParseSeverity(v)
			assert.False(t, ok, v)
		}
	})
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityHigh.Max(SeverityCritical))
	assert.Equal(t, SeverityLow, SeverityLow.Max(SeverityInformation))
	assert.Equal(t, SeverityInformation, SeverityClean.Max(SeverityInformation))
	assert.True(t, SeverityClean.IsClean())
	assert.False(t, SeverityInformation.IsClean())
}

func TestNormalizeVulnerability(t *testing.T) {
	t.Run("should take the first rating with a preferred method", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID: "CVE-1",
			Ratings: ratings(
				dtos.RatingRecord{Severity: "low"},
				dtos.RatingRecord{Method: "CVSSv31", Score: utils.Ptr(7.5), Vector: "CVSS:3.1/AV:N"},
				dtos.RatingRecord{Method: "CVSSv4", Severity: "critical"},
			),
		}, discardDiagnostics())
		assert.Equal(t, Vulnerability{ID: "CVE-1", Severity: SeverityHigh, Score: 7.5, Vector: "CVSS:3.1/AV:N"}, v)
	})

	t.Run("should stop at the first preferred rating even if a later one has a severity", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID: "CVE-1",
			Ratings: ratings(
				dtos.RatingRecord{Method: "CVSSv3", Score: utils.Ptr(4.2)},
				dtos.RatingRecord{Method: "CVSSv3", Severity: "critical"},
			),
		}, discardDiagnostics())
		assert.Equal(t, SeverityMedium, v.Severity)
		assert.Equal(t, 4.2, v.Score)
		assert.Equal(t, NoVector, v.Vector)
	})

	t.Run("should prefer the declared severity over the score", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID:      "CVE-1",
			Ratings: ratings(dtos.RatingRecord{Method: "OWASP", Severity: "Low", Score: utils.Ptr(9.9)}),
		}, discardDiagnostics())
		assert.Equal(t, SeverityLow, v.Severity)
		assert.Equal(t, 9.9, v.Score)
	})

	t.Run("should skip a preferred rating without severity and score", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID: "CVE-1",
			Ratings: ratings(
				dtos.RatingRecord{Method: "CVSSv4"},
				dtos.RatingRecord{Method: "SSVC", Severity: "high"},
			),
		}, discardDiagnostics())
		assert.Equal(t, SeverityHigh, v.Severity)
	})

	t.Run("should fall back to the first rating with a usable severity or score", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID: "CVE-1",
			Ratings: ratings(
				dtos.RatingRecord{Method: "custom"},
				dtos.RatingRecord{Method: "custom", Score: utils.Ptr(9.1)},
				dtos.RatingRecord{Method: "custom", Severity: "low"},
			),
		}, discardDiagnostics())
		assert.Equal(t, SeverityCritical, v.Severity)
		assert.Equal(t, 9.1, v.Score)
	})

	t.Run("should score a cvss vector if nothing else is usable", func(t *testing.T) {
		v := NormalizeVulnerability(dtos.VulnerabilityRecord{
			ID:      "CVE-1",
			Ratings: ratings(dtos.RatingRecord{Method: "custom", Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}),
		}, discardDiagnostics())
		assert.Equal(t, SeverityCritical, v.Severity)
		assert.InDelta(t, 9.8, v.Score, 0.01)
		assert.Equal(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", v.Vector)
	})

	t.Run("should default to information and report missing ratings", func(t *testing.T) {
		cases := []struct {
			name    string
			ratings *[]dtos.RatingRecord
		}{
			{"missing", nil},
			{"empty", ratings()},
			{"unusable", ratings(dtos.RatingRecord{Method: "custom", Vector: "garbage"})},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				diags := discardDiagnostics()
				v := NormalizeVulnerability(dtos.VulnerabilityRecord{ID: "CVE-2", Ratings: c.ratings}, diags)
				assert.Equal(t, Vulnerability{ID: "CVE-2", Severity: SeverityInformation, Score: 0, Vector: NoVector}, v)
				entries := diags.OfKind(shared.DiagnosticMissingRating)
				assert.Len(t, entries, 1)
				assert.Equal(t, "CVE-2", entries[0].Subject)
			})
		}
	})
}

func TestScoreVector(t *testing.T) {
	cases := []struct {
		vector   string
		expected float64
	}{
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N", 9.3},
		{"AV:N/AC:L/Au:N/C:P/I:P/A:P", 7.5},
		{"(AV:N/AC:L/Au:N/C:P/I:P/A:P)", 7.5},
	}
	for _, c := range cases {
		t.Run(c.vector, func(t *testing.T) {
			score, ok := ScoreVector(c.vector)
			assert.True(t, ok)
			assert.InDelta(t, c.expected, score, 0.01)
		})
	}

	t.Run("should reject invalid vectors", func(t *testing.T) {
		_, ok := ScoreVector("CVSS:3.1/AV:X")
		assert.False(t, ok)
		_, ok = ScoreVector("not a vector")
		assert.False(t, ok)
	})
}
