package command

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

func matrixTable(title string, rows [][]float64) string {
	t := table.NewWriter()
	t.SetTitle(title)
	for _, row := range rows {
		t.AppendRow(lo.Map(row, func(v float64, _ int) interface{} { return fmt.Sprintf("%g", v) }))
	}
	return t.Render()
}

func formatJoints(q []float64) string {
	return strings.Join(lo.Map(q, func(v float64, i int) string { return fmt.Sprintf("q%d = %.2f", i+1, v) }), ", ")
}

func formatPoint(p r3.Vector) string {
	return fmt.Sprintf("x = %.2f, y = %.2f, z = %.2f", p.X, p.Y, p.Z)
}

func formatMatrices(data MatricesData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transforms for %s deg\n", formatJoints(data.Joints))
	for i, rows := range data.Links {
		sb.WriteString(matrixTable(fmt.Sprintf("T%d%d", i, i+1), rows))
		sb.WriteString("\n")
	}
	sb.WriteString(matrixTable(fmt.Sprintf("T0%d", len(data.Links)), data.Tool))
	return sb.String()
}

func formatForward(data ForwardData) string {
	return fmt.Sprintf("For %s deg the end effector is at %s mm", formatJoints(data.Joints), formatPoint(data.Position))
}

func solutionsTable(sols []SolutionData) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Branch", "q1 (deg)", "q2 (deg)", "q3 (deg)"})
	for i, s := range sols {
		t.AppendRow(table.Row{i + 1, s.Branch, fmt.Sprintf("%.2f", s.Joints[0]), fmt.Sprintf("%.2f", s.Joints[1]), fmt.Sprintf("%.2f", s.Joints[2])})
	}
	return t.Render()
}

func formatInverse(data InverseData) string {
	if len(data.Solutions) == 0 {
		return fmt.Sprintf("No solution found: %s mm is out of reach", formatPoint(data.Position))
	}
	return fmt.Sprintf("%d solution(s) for %s mm\n%s", len(data.Solutions), formatPoint(data.Position), solutionsTable(data.Solutions))
}

var twistLabels = []string{"vx (mm/s)", "vy (mm/s)", "vz (mm/s)", "wx (rad/s)", "wy (rad/s)", "wz (rad/s)"}

func twistTable(twist []float64) string {
	t := table.NewWriter()
	for i, v := range twist {
		t.AppendRow(table.Row{twistLabels[i], fmt.Sprintf("%.3f", v)})
	}
	return t.Render()
}

func formatJacobian(data JacobianData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Geometric Jacobian at %s deg\n", formatJoints(data.Joints))
	sb.WriteString(matrixTable("J", data.Jacobian))
	if data.Twist != nil {
		fmt.Fprintf(&sb, "\nEnd effector velocity for joint velocities %v rad/s\n", data.JointVelocities)
		sb.WriteString(twistTable(data.Twist))
	}
	return sb.String()
}

func formatInverseVelocity(data InverseVelocityData) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Joint", "Velocity (rad/s)"})
	for i, v := range data.JointVelocities {
		t.AppendRow(table.Row{fmt.Sprintf("q%d_dot", i+1), fmt.Sprintf("%.6f", v)})
	}
	return fmt.Sprintf("Joint velocities at %s deg\n%s", formatJoints(data.Joints), t.Render())
}

func formatVerify(data VerifyData) string {
	if len(data.Results) == 0 {
		return fmt.Sprintf("No solution found: %s mm is out of reach", formatPoint(data.Position))
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Branch", "Joints (deg)", "Reached (mm)", "Error (mm)", "Correct"})
	for i, v := range data.Results {
		t.AppendRow(table.Row{
			i + 1, v.Branch,
			fmt.Sprintf("%.2f, %.2f, %.2f", v.Joints[0], v.Joints[1], v.Joints[2]),
			fmt.Sprintf("%.3f, %.3f, %.3f", v.Reached.X, v.Reached.Y, v.Reached.Z),
			fmt.Sprintf("%.4f", v.Error),
			v.Correct,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "max / mean", fmt.Sprintf("%.4f / %.4f", data.Summary.MaxError, data.Summary.MeanError),
		fmt.Sprintf("%d/%d", data.Summary.Correct, data.Summary.Count)})
	return fmt.Sprintf("Verification for %s mm\n%s", formatPoint(data.Position), t.Render())
}

func formatSimulation(data SimulationData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Arm drawn (%s view) at %s deg, tool at %s mm", data.View, formatJoints(data.Joints),
		formatPoint(data.Points[len(data.Points)-1]))
	if len(data.Solutions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(solutionsTable(data.Solutions))
	}
	return sb.String()
}
