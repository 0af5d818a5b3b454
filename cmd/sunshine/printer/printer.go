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

package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/sbomgraph"
	"github.com/l3montree-dev/sunshine/utils"
)

var titleCaser = cases.Title(language.English)

var classificationColors = map[sbomgraph.Classification]text.Colors{
	sbomgraph.Classification(normalize.SeverityCritical):    {text.FgHiRed, text.Bold},
	sbomgraph.Classification(normalize.SeverityHigh):        {text.FgRed},
	sbomgraph.Classification(normalize.SeverityMedium):      {text.FgYellow},
	sbomgraph.Classification(normalize.SeverityLow):         {text.FgHiYellow},
	sbomgraph.Classification(normalize.SeverityInformation): {text.FgGreen},
	sbomgraph.ClassificationIndirect:                        {text.FgHiBlue},
	sbomgraph.ClassificationClean:                           {text.FgHiBlack},
}

func colorize(c sbomgraph.Classification, s string) string {
	if colors, ok := classificationColors[c]; ok {
		return colors.Sprint(s)
	}
	return s
}

func severityLabel(s normalize.Severity) string {
	return colorize(sbomgraph.Classification(s), titleCaser.String(string(s)))
}

func componentLabel(name, version string) string {
	if version == "" || version == normalize.Unknown {
		return name
	}
	return name + " " + version
}

// Render writes the report in the given format.
func Render(w io.Writer, format string, report Report) error {
	switch format {
	case "json":
		return RenderJSON(w, report)
	case "yaml":
		return RenderYAML(w, report)
	case "tree":
		PrintMetadata(w, report)
		PrintForest(w, report.Forest)
		return nil
	case "table", "":
		PrintMetadata(w, report)
		PrintComponents(w, report.Components)
		PrintVulnerabilities(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func RenderJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func RenderYAML(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(report)
}

func PrintMetadata(w io.Writer, report Report) {
	m := report.Metadata
	tw := table.NewWriter()
	tw.SetTitle(report.Source)
	if mc := m.MainComponent; mc != nil {
		tw.AppendRow(table.Row{"Main Component", componentLabel(mc.Name, mc.Version)})
		if mc.Type != "" {
			tw.AppendRow(table.Row{"Type", mc.Type})
		}
		if mc.Group != "" {
			tw.AppendRow(table.Row{"Group", mc.Group})
		}
		if mc.PackageURL != "" {
			tw.AppendRow(table.Row{"PURL", mc.PackageURL})
		}
		if mc.Description != "" {
			tw.AppendRow(table.Row{"Description", text.WrapSoft(mc.Description, 80)})
		}
		keys := make([]string, 0, len(mc.Properties))
		for k := range mc.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tw.AppendRow(table.Row{k, mc.Properties[k]})
		}
	}
	if m.SpecVersion != "" {
		tw.AppendRow(table.Row{"Spec Version", m.SpecVersion})
	}
	if m.SerialNumber != "" {
		tw.AppendRow(table.Row{"Serial Number", m.SerialNumber})
	}
	if m.Version != 0 {
		tw.AppendRow(table.Row{"Version", m.Version})
	}
	for i, tool := range m.Tools {
		label := "Tool"
		if len(m.Tools) > 1 {
			label = fmt.Sprintf("Tool #%d", i+1)
		}
		tw.AppendRow(table.Row{label, strings.TrimSpace(strings.Join([]string{tool.Vendor, tool.Name, tool.Version}, " "))})
	}
	tw.AppendRow(table.Row{"Components", m.Components})
	tw.AppendRow(table.Row{"Vulnerabilities", m.Vulnerabilities})
	fmt.Fprintln(w, tw.Render())
}

func vulnerabilityList(vulns []normalize.Vulnerability) string {
	sorted := append([]normalize.Vulnerability{}, vulns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity.Rank() != sorted[j].Severity.Rank() {
			return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
		}
		return sorted[i].ID < sorted[j].ID
	})
	return strings.Join(utils.Map(sorted, func(v normalize.Vulnerability) string {
		return fmt.Sprintf("%s %s", severityLabel(v.Severity), v.ID)
	}), "\n")
}

func componentType(c ComponentView) string {
	if c.Ecosystem == "" {
		return c.Type
	}
	return fmt.Sprintf("%s (%s)", c.Type, c.Ecosystem)
}

func PrintComponents(w io.Writer, components []ComponentView) {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Component", "Type", "Depends on", "Dependency of", "Direct vulnerabilities", "Transitive vulnerabilities", "Licenses"})
	tw.AppendRows(utils.Map(components, func(c ComponentView) table.Row {
		return table.Row{
			colorize(c.Classification, componentLabel(c.Name, c.Version)),
			componentType(c),
			strings.Join(c.DependsOn, "\n"),
			strings.Join(c.DependencyOf, "\n"),
			vulnerabilityList(c.Vulnerabilities),
			vulnerabilityList(c.TransitiveVulnerabilities),
			strings.Join(c.Licenses, "\n"),
		}
	}))
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = true
	fmt.Fprintln(w, tw.Render())
}

func PrintVulnerabilities(w io.Writer, report Report) {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Vulnerability", "Severity", "Score", "Vector", "Directly affected", "Transitively affected"})
	for _, v := range report.Vulnerabilities {
		tw.AppendRow(table.Row{
			v.ID,
			severityLabel(v.Severity),
			fmt.Sprintf("%.1f", v.Score),
			v.Vector,
			strings.Join(v.DirectlyAffected, "\n"),
			strings.Join(v.TransitivelyAffected, "\n"),
		})
	}

	counts := make([]string, 0, len(normalize.Severities))
	for _, s := range normalize.Severities {
		counts = append(counts, fmt.Sprintf("%s: %d", titleCaser.String(string(s)), report.Counts[s]))
	}
	tw.AppendFooter(table.Row{"Total", len(report.Vulnerabilities), strings.Join(counts, ", ")})
	tw.SetStyle(table.StyleLight)
	fmt.Fprintln(w, tw.Render())
}

// PrintForest renders every root as an indented list.
func PrintForest(w io.Writer, forest sbomgraph.Forest) {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)

	var appendNode func(n *sbomgraph.TreeNode)
	appendNode = func(n *sbomgraph.TreeNode) {
		label := colorize(n.Classification, componentLabel(n.Name, n.Version))
		if n.Cycle {
			label += " (cycle)"
		}
		l.AppendItem(label)
		if len(n.Children) == 0 {
			return
		}
		l.Indent()
		for _, child := range n.Children {
			appendNode(child)
		}
		l.UnIndent()
	}
	for _, root := range forest {
		appendNode(root)
	}
	fmt.Fprintln(w, l.Render())
}
