package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

func writeVariablesTable(w io.Writer, vars []schema.VariableInfo, cfg *contract.Config) error {
	descWidth := GetMaxTableTextWidth(cfg, 60)
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, []string{
			v.Alias,
			v.Label,
			v.Scale,
			v.Areas,
			v.Clusters,
			contract.TruncateText(v.Description, descWidth),
		})
	}
	return writeTable(w, []string{"Alias", "Label", "Scale", "Areas", "Clusters", "Description"}, rows)
}

func writeVariablesCSV(w io.Writer, vars []schema.VariableInfo, _ *contract.Config) error {
	records := make([][]string, 0, len(vars))
	for _, v := range vars {
		records = append(records, []string{v.Alias, v.Label, v.Scale, v.Areas, v.Clusters, v.Description})
	}
	return writeCSV(w, []string{"alias", "label", "scale", "areas", "clusters", "description"}, records)
}

func writeConstantsTable(w io.Writer, consts []schema.ConstantInfo, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	descWidth := GetMaxTableTextWidth(cfg, 55)
	rows := make([][]string, 0, len(consts))
	for _, c := range consts {
		rows = append(rows, []string{
			c.Alias,
			c.Label,
			c.Scale,
			f.value(c.Value),
			f.value(c.Default),
			contract.TruncateText(c.Description, descWidth),
		})
	}
	return writeTable(w, []string{"Alias", "Label", "Scale", "Value", "Default", "Description"}, rows)
}

func writeConstantsCSV(w io.Writer, consts []schema.ConstantInfo, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	records := make([][]string, 0, len(consts))
	for _, c := range consts {
		records = append(records, []string{c.Alias, c.Label, c.Scale, f.value(c.Value), f.value(c.Default), c.Description})
	}
	return writeCSV(w, []string{"alias", "label", "scale", "value", "default", "description"}, records)
}

// valueScope describes where a value was evaluated, most specific first.
func valueScope(v schema.VariableValue) string {
	switch {
	case v.Username != "" && v.ProjectID != 0:
		return fmt.Sprintf("user %s, project %d", v.Username, v.ProjectID)
	case v.ProjectID != 0:
		return fmt.Sprintf("project %d", v.ProjectID)
	case v.GroupID != 0:
		return fmt.Sprintf("group %d", v.GroupID)
	case v.Syllabus != 0:
		return fmt.Sprintf("syllabus %d", v.Syllabus)
	}
	return v.Area
}

func writeValueTable(w io.Writer, v schema.VariableValue, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	scope := valueScope(v)
	if v.Milestone != "" {
		scope += ", milestone " + v.Milestone
	}
	status := string(v.Status)
	if val, ok := v.Value.(float64); ok {
		status = contract.GetStatusLabel(v.Status, val, cfg.UseColors)
	}
	row := []string{v.Alias, v.Area, scope, f.rated(v.Status, v.Value, "-"), status, contract.TruncateText(v.Message, GetMaxTableTextWidth(cfg, 60))}
	return writeTable(w, []string{"Alias", "Area", "Scope", "Value", "Status", "Message"}, [][]string{row})
}

func writeValueCSV(w io.Writer, v schema.VariableValue, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	record := []string{v.Alias, v.Area, valueScope(v), v.Milestone, f.rated(v.Status, v.Value, ""), string(v.Status), v.Message}
	return writeCSV(w, []string{"alias", "area", "scope", "milestone", "value", "status", "message"}, [][]string{record})
}
