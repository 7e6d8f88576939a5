package core

import (
	"context"
	"fmt"

	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/schema"
)

// DescribeVariables lists the variables of m that support area and cluster.
// AreaNone and a zero cluster match every variable.
func DescribeVariables(m *model.Model, area schema.Area, cluster schema.Cluster) []schema.VariableInfo {
	vars := m.VarsFor(area, cluster)
	out := make([]schema.VariableInfo, 0, len(vars))
	for _, v := range vars {
		info := v.Info()
		out = append(out, schema.VariableInfo{
			Alias:       info.Alias,
			Label:       info.Label,
			Description: info.Description,
			Scale:       info.Scale.Name(),
			Areas:       info.Areas.String(),
			Clusters:    info.Clusters.String(),
		})
	}
	return out
}

// DescribeConstants lists the constants of m with their effective values.
func DescribeConstants(m *model.Model) []schema.ConstantInfo {
	consts := m.Constants()
	out := make([]schema.ConstantInfo, 0, len(consts))
	for _, c := range consts {
		out = append(out, describeConstant(c))
	}
	return out
}

func describeConstant(c *model.Constant) schema.ConstantInfo {
	info := c.Info()
	return schema.ConstantInfo{
		Alias:       info.Alias,
		Label:       info.Label,
		Description: info.Description,
		Scale:       info.Scale.Name(),
		Value:       c.Get(),
		Default:     info.Default,
	}
}

// Evaluate computes one variable over scope s. Evaluation failures are folded
// into the returned status; only an unknown alias is reported as an error.
func Evaluate(ctx context.Context, m *model.Model, alias string, s schema.Scope) (schema.VariableValue, error) {
	v, err := m.Var(alias)
	if err != nil {
		return schema.VariableValue{}, err
	}
	value, err := v.WithScope(s).Get(ctx)
	out := schema.VariableValue{
		Alias:     alias,
		Area:      s.Area.String(),
		ProjectID: s.ProjectID,
		Username:  s.Username,
		GroupID:   s.GroupID,
		Syllabus:  s.SyllabusID,
		Milestone: s.Milestone,
		Value:     value,
		Status:    model.Outcome(err),
	}
	if err != nil {
		out.Message = err.Error()
	}
	return out, nil
}

// SetConstant validates and saves a new value for a constant of m.
func SetConstant(m *model.Model, alias string, value any) (schema.ConstantInfo, error) {
	c, err := m.Const(alias)
	if err != nil {
		return schema.ConstantInfo{}, err
	}
	if err := c.Set(value); err != nil {
		return schema.ConstantInfo{}, err
	}
	if err := m.Config().Save(); err != nil {
		return schema.ConstantInfo{}, fmt.Errorf("failed to save constant %q: %w", alias, err)
	}
	return describeConstant(c), nil
}

// ResetConstant saves the default value of a constant of m.
func ResetConstant(m *model.Model, alias string) (schema.ConstantInfo, error) {
	c, err := m.Const(alias)
	if err != nil {
		return schema.ConstantInfo{}, err
	}
	return SetConstant(m, alias, c.Info().Default)
}
