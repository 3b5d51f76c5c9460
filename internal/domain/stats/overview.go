package stats

import (
	"fmt"
	"sort"

	"github.com/okian/abcboard/internal/domain/model"
)

// Overview holds company-wide headline figures.
type Overview struct {
	TotalEmployees int     `json:"total_employees"`
	AverageScore   float64 `json:"average_score"`
	TopPerformers  int     `json:"top_performers"`
	RiskEmployees  int     `json:"risk_employees"`
	WithoutData    int     `json:"without_data"`
}

// Summary computes the Overview. Employees scoring at least topMin count as
// top performers; those in the riskKey category count as risk employees.
func Summary(employees []model.ClassifiedEmployee, topMin float64, riskKey string) Overview {
	o := Overview{TotalEmployees: len(employees)}
	var sum float64
	for _, e := range employees {
		sum += e.TotalScore
		if e.TotalScore >= topMin {
			o.TopPerformers++
		}
		if ByCategory(e) == riskKey {
			o.RiskEmployees++
		}
		if !e.HasAnyData {
			o.WithoutData++
		}
	}
	if len(employees) > 0 {
		o.AverageScore = sum / float64(len(employees))
	}
	return o
}

// TopPerformers returns up to limit employees by total descending, ties by ID.
// A limit of zero or less returns everyone.
func TopPerformers(employees []model.ClassifiedEmployee, limit int) []model.ClassifiedEmployee {
	out := append([]model.ClassifiedEmployee(nil), employees...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].Employee.ID < out[j].Employee.ID
	})
	return truncate(out, limit)
}

// AtRisk returns up to limit employees of the riskKey category, lowest first.
func AtRisk(employees []model.ClassifiedEmployee, riskKey string, limit int) []model.ClassifiedEmployee {
	var out []model.ClassifiedEmployee
	for _, e := range employees {
		if ByCategory(e) == riskKey {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore < out[j].TotalScore
		}
		return out[i].Employee.ID < out[j].Employee.ID
	})
	return truncate(out, limit)
}

func truncate(in []model.ClassifiedEmployee, limit int) []model.ClassifiedEmployee {
	if in == nil {
		in = []model.ClassifiedEmployee{}
	}
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

// Alert severities.
const (
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Alert is a dashboard notice.
type Alert struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// AlertThresholds configures Alerts.
type AlertThresholds struct {
	LowDepartmentAverage float64 `koanf:"low_department_average"`
	MaxRiskCount         int     `koanf:"max_risk_count"`
}

// Alerts flags departments averaging below the threshold and a risk
// population larger than allowed. Departments keep the order of departments.
func Alerts(departments []GroupSummary, riskCount int, th AlertThresholds) []Alert {
	alerts := []Alert{}
	for _, d := range departments {
		if d.AverageScore < th.LowDepartmentAverage {
			alerts = append(alerts, Alert{
				Type:    SeverityWarning,
				Subject: d.Key,
				Message: fmt.Sprintf("Phòng %s có điểm trung bình thấp (%.2f)", d.Key, d.AverageScore),
			})
		}
	}
	if riskCount > th.MaxRiskCount {
		alerts = append(alerts, Alert{
			Type:    SeverityDanger,
			Subject: "risk",
			Message: fmt.Sprintf("Có %d nhân viên trong nhóm rủi ro cao cần được hỗ trợ khẩn cấp", riskCount),
		})
	}
	return alerts
}
