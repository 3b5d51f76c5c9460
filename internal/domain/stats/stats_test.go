package stats_test

import (
	"testing"

	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	superstar = &model.Band{Key: "superstar", Lower: model.Bound(8)}
	golden    = &model.Band{Key: "golden_potential", Lower: model.Bound(7), Upper: model.Bound(8)}
	risk      = &model.Band{Key: "risk", Upper: model.Bound(4)}
)

func emp(id, dept string, total float64, band *model.Band) model.ClassifiedEmployee {
	return model.ClassifiedEmployee{
		Employee:   model.Employee{ID: id, Department: dept},
		TotalScore: total,
		HasAnyData: total > 0,
		Category:   band,
	}
}

func population() []model.ClassifiedEmployee {
	return []model.ClassifiedEmployee{
		emp("e1", "IT", 8.5, superstar),
		emp("e2", "IT", 7.5, golden),
		emp("e3", "MSA", 9.0, superstar),
		emp("e4", "MSA", 7.0, golden),
		emp("e5", "HR", 3.0, risk),
		emp("e6", "HR", 0, risk),
		emp("e7", "JPC", 8.0, superstar),
	}
}

func TestSummarize(t *testing.T) {
	Convey("Given a classified population", t, func() {
		Convey("When summarizing by department", func() {
			rows := stats.Summarize(population(), stats.ByDepartment)

			Convey("Then rows are sorted by average with ties broken by key", func() {
				So(len(rows), ShouldEqual, 4)
				keys := []string{rows[0].Key, rows[1].Key, rows[2].Key, rows[3].Key}
				So(keys, ShouldResemble, []string{"IT", "JPC", "MSA", "HR"})
			})

			Convey("Then counts, averages and distributions are computed", func() {
				it := rows[0]
				So(it.Count, ShouldEqual, 2)
				So(it.AverageScore, ShouldAlmostEqual, 8.0, 1e-9)
				So(it.CategoryDistribution, ShouldResemble, map[string]int{"superstar": 1, "golden_potential": 1})
				hr := rows[3]
				So(hr.AverageScore, ShouldAlmostEqual, 1.5, 1e-9)
				So(hr.CategoryDistribution["risk"], ShouldEqual, 2)
			})
		})

		Convey("When summarizing by category", func() {
			rows := stats.Summarize(population(), stats.ByCategory)

			Convey("Then each category forms one group", func() {
				So(rows[0].Key, ShouldEqual, "superstar")
				So(rows[0].Count, ShouldEqual, 3)
				So(rows[len(rows)-1].Key, ShouldEqual, "risk")
			})
		})

		Convey("When summarizing nothing", func() {
			So(stats.Summarize(nil, stats.ByDepartment), ShouldBeEmpty)
		})

		Convey("When every group has the same average", func() {
			rows := stats.Summarize([]model.ClassifiedEmployee{
				emp("a", "zeta", 5, golden),
				emp("b", "alpha", 5, golden),
				emp("c", "mu", 5, golden),
			}, stats.ByDepartment)
			So([]string{rows[0].Key, rows[1].Key, rows[2].Key}, ShouldResemble, []string{"alpha", "mu", "zeta"})
		})
	})
}

func TestOverview(t *testing.T) {
	Convey("Given a classified population", t, func() {
		pop := population()

		Convey("When computing the overview", func() {
			o := stats.Summary(pop, 8, "risk")

			Convey("Then headline figures match", func() {
				So(o.TotalEmployees, ShouldEqual, 7)
				So(o.AverageScore, ShouldAlmostEqual, 43.0/7, 1e-9)
				So(o.TopPerformers, ShouldEqual, 3)
				So(o.RiskEmployees, ShouldEqual, 2)
				So(o.WithoutData, ShouldEqual, 1)
			})
		})

		Convey("When the population is empty", func() {
			o := stats.Summary(nil, 8, "risk")
			So(o.AverageScore, ShouldEqual, 0)
		})

		Convey("When ranking top performers", func() {
			top := stats.TopPerformers(pop, 3)
			So(top[0].Employee.ID, ShouldEqual, "e3")
			So(top[1].Employee.ID, ShouldEqual, "e1")
			So(top[2].Employee.ID, ShouldEqual, "e7")
			So(len(stats.TopPerformers(pop, 0)), ShouldEqual, 7)
			So(pop[0].Employee.ID, ShouldEqual, "e1")
		})

		Convey("When listing risk employees", func() {
			r := stats.AtRisk(pop, "risk", 10)
			So(len(r), ShouldEqual, 2)
			So(r[0].Employee.ID, ShouldEqual, "e6")
			So(stats.AtRisk(nil, "risk", 10), ShouldNotBeNil)
		})

		Convey("When counting categories", func() {
			So(stats.Distribution(pop), ShouldResemble, map[string]int{"superstar": 3, "golden_potential": 2, "risk": 2})
		})
	})
}

func TestAlerts(t *testing.T) {
	Convey("Given department summaries", t, func() {
		rows := stats.Summarize(population(), stats.ByDepartment)
		th := stats.AlertThresholds{LowDepartmentAverage: 5, MaxRiskCount: 1}

		Convey("When thresholds are exceeded", func() {
			alerts := stats.Alerts(rows, 2, th)

			Convey("Then a warning and a danger alert are raised", func() {
				So(len(alerts), ShouldEqual, 2)
				So(alerts[0].Type, ShouldEqual, stats.SeverityWarning)
				So(alerts[0].Subject, ShouldEqual, "HR")
				So(alerts[0].Message, ShouldContainSubstring, "1.50")
				So(alerts[1].Type, ShouldEqual, stats.SeverityDanger)
			})
		})

		Convey("When nothing is wrong", func() {
			alerts := stats.Alerts(rows[:3], 1, th)
			So(alerts, ShouldNotBeNil)
			So(alerts, ShouldBeEmpty)
		})
	})
}
