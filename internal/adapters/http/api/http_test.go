package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/abcboard/internal/adapters/http/api"
	"github.com/okian/abcboard/internal/adapters/ingest"
	"github.com/okian/abcboard/internal/adapters/repository"
	service "github.com/okian/abcboard/internal/app"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
)

var superstar = &model.Band{Key: "superstar", Label: "Siêu Sao", Color: "#FFD700", Lower: model.Bound(8)}

func star() model.ClassifiedEmployee {
	return model.ClassifiedEmployee{
		Employee: model.Employee{
			ID: "1", EmployeeCode: "ESU0001", Name: "Nguyễn Văn Thấy", Department: "Ban Giám Đốc",
			Scores: model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 9, model.GroupB: 8, model.GroupC: 7.5}),
		},
		TotalScore: 8.11,
		HasAnyData: true,
		Category:   superstar,
	}
}

// mockDeps records the last filter and returns canned data.
type mockDeps struct {
	started    bool
	err        error
	lastFilter repository.Filter
	lastLimit  int
	lastScores model.ScoreSet
}

func (m *mockDeps) Status(context.Context) types.Status {
	return types.Status{Started: m.started, Employees: 1, Version: 3}
}

func (m *mockDeps) Employees(_ context.Context, f repository.Filter) ([]model.ClassifiedEmployee, int, error) {
	m.lastFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	return []model.ClassifiedEmployee{star()}, 7, nil
}

func (m *mockDeps) Employee(_ context.Context, key string) (repository.Entry, error) {
	if key != "1" {
		return repository.Entry{}, fmt.Errorf("%w: %s", repository.ErrNotFound, key)
	}
	return repository.Entry{Employee: star(), Rank: 1}, nil
}

func (m *mockDeps) Pipeline(context.Context) (pipeline.Result, []string, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return pipeline.Result{
		pipeline.ReadyForPromotion: {star()},
		pipeline.HighPotential:     {},
	}, []string{pipeline.ReadyForPromotion, pipeline.HighPotential}, nil
}

func (m *mockDeps) Departments(context.Context) ([]string, error) {
	return []string{"Ban Giám Đốc", "Kinh Doanh"}, m.err
}

func (m *mockDeps) DepartmentStats(context.Context) ([]stats.GroupSummary, error) {
	return []stats.GroupSummary{{Key: "Ban Giám Đốc", Count: 1, AverageScore: 8.11, CategoryDistribution: map[string]int{"superstar": 1}}}, m.err
}

func (m *mockDeps) CategoryStats(context.Context) ([]stats.GroupSummary, error) {
	return []stats.GroupSummary{{Key: "superstar", Count: 1, AverageScore: 8.11}}, m.err
}

func (m *mockDeps) PositionStats(context.Context) ([]stats.GroupSummary, error) {
	return []stats.GroupSummary{}, m.err
}

func (m *mockDeps) Overview(context.Context) (stats.Overview, error) {
	return stats.Overview{TotalEmployees: 1, AverageScore: 8.11, TopPerformers: 1}, m.err
}

func (m *mockDeps) Top(_ context.Context, limit int) ([]model.ClassifiedEmployee, error) {
	m.lastLimit = limit
	return []model.ClassifiedEmployee{star()}, m.err
}

func (m *mockDeps) Risk(_ context.Context, limit int) ([]model.ClassifiedEmployee, error) {
	m.lastLimit = limit
	return []model.ClassifiedEmployee{}, m.err
}

func (m *mockDeps) Alerts(context.Context) ([]stats.Alert, error) {
	return []stats.Alert{{Type: stats.SeverityWarning, Subject: "Kinh Doanh", Message: "Phòng Kinh Doanh có điểm trung bình thấp (4.80)"}}, m.err
}

func (m *mockDeps) Bands() ([]model.Band, error) {
	return []model.Band{*superstar}, m.err
}

func (m *mockDeps) Classify(_ context.Context, scores model.ScoreSet) (types.ClassifyResult, error) {
	m.lastScores = scores
	if v, ok := scores.Get(model.GroupA); ok && v > 10 {
		return types.ClassifyResult{}, &model.InputDataError{Record: "request", Field: "groupA", Reason: "out of range"}
	}
	return types.ClassifyResult{TotalScore: 8.11, HasData: true, Category: superstar}, m.err
}

func (m *mockDeps) Reload(context.Context) (ingest.Report, error) {
	if m.err != nil {
		return ingest.Report{}, m.err
	}
	return ingest.Report{
		Source: "data/employees.csv", Total: 2, Accepted: 1,
		Rejected: []ingest.Rejection{{Row: 2, Record: "ESU0002", Reason: ingest.ReasonInvalidEmail, Err: errors.New("bad email")}},
	}, nil
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDeps{started: true}
		mux := newMux(deps)

		Convey("Health reports the snapshot", func() {
			w := do(mux, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			st := decode[types.Status](w)
			So(st.Version, ShouldEqual, 3)
		})

		Convey("Health is unavailable before the first load", func() {
			deps.started = false
			w := do(mux, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Metrics are exposed in Prometheus text format", func() {
			_ = do(mux, http.MethodGet, "/healthz", nil)
			w := do(mux, http.MethodGet, "/metrics", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "abc_talent_http_requests_total")
		})

		Convey("Wrong methods are refused by the router", func() {
			w := do(mux, http.MethodPost, "/pipeline", nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestEmployeesEndpoints(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDeps{started: true}
		mux := newMux(deps)

		Convey("Listing passes every filter through", func() {
			w := do(mux, http.MethodGet, "/employees?department=IT&category=risk&position=Dev&q=an&min=2&max=6.5&limit=10", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			list := decode[types.EmployeeList](w)
			So(list.Total, ShouldEqual, 7)
			So(len(list.Items), ShouldEqual, 1)
			So(list.Items[0].Category, ShouldEqual, "superstar")
			So(list.Items[0].Scores["D"], ShouldBeNil)

			f := deps.lastFilter
			So(f.Department, ShouldEqual, "IT")
			So(f.Category, ShouldEqual, "risk")
			So(f.Position, ShouldEqual, "Dev")
			So(f.Query, ShouldEqual, "an")
			So(*f.MinScore, ShouldEqual, 2)
			So(*f.MaxScore, ShouldEqual, 6.5)
			So(f.Limit, ShouldEqual, 10)
		})

		Convey("Invalid query parameters are bad requests", func() {
			for _, target := range []string{"/employees?limit=0", "/employees?limit=x", "/employees?min=abc", "/top?limit=-3"} {
				w := do(mux, http.MethodGet, target, nil)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("An inverted range from the store is a bad request", func() {
			deps.err = repository.ErrInvalidRange
			w := do(mux, http.MethodGet, "/employees?min=7&max=6", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Lookup returns the rank", func() {
			w := do(mux, http.MethodGet, "/employees/1", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			d := decode[types.EmployeeDetail](w)
			So(d.Rank, ShouldEqual, 1)
			So(d.EmployeeCode, ShouldEqual, "ESU0001")
		})

		Convey("Unknown employees are 404", func() {
			w := do(mux, http.MethodGet, "/employees/nobody", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[map[string]string](w)["code"], ShouldEqual, "not_found")
		})

		Convey("Top and risk forward the limit", func() {
			w := do(mux, http.MethodGet, "/top?limit=5", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 5)

			w = do(mux, http.MethodGet, "/risk", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 0)
			So(w.Body.String(), ShouldStartWith, "[]")
		})
	})
}

func TestPipelineAndStats(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDeps{started: true}
		mux := newMux(deps)

		Convey("The pipeline keeps configured bucket order", func() {
			w := do(mux, http.MethodGet, "/pipeline", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			buckets := decode[[]types.PipelineBucket](w)
			So(len(buckets), ShouldEqual, 2)
			So(buckets[0].Name, ShouldEqual, pipeline.ReadyForPromotion)
			So(buckets[0].Count, ShouldEqual, 1)
			So(buckets[1].Employees, ShouldNotBeNil)
		})

		Convey("Statistics endpoints serve their summaries", func() {
			for _, target := range []string{"/stats/departments", "/stats/categories", "/stats/positions", "/stats/overview", "/alerts", "/bands"} {
				w := do(mux, http.MethodGet, target, nil)
				So(w.Code, ShouldEqual, http.StatusOK)
			}
			w := do(mux, http.MethodGet, "/stats/overview", nil)
			So(decode[stats.Overview](w).TopPerformers, ShouldEqual, 1)

			w = do(mux, http.MethodGet, "/departments", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[[]string](w), ShouldResemble, []string{"Ban Giám Đốc", "Kinh Doanh"})
		})

		Convey("Errors are mapped by kind", func() {
			deps.err = service.ErrNotStarted
			So(do(mux, http.MethodGet, "/pipeline", nil).Code, ShouldEqual, http.StatusServiceUnavailable)

			deps.err = fmt.Errorf("%w: %q", service.ErrUnknownCategory, "unicorn")
			So(do(mux, http.MethodGet, "/employees?category=unicorn", nil).Code, ShouldEqual, http.StatusBadRequest)

			deps.err = model.NewConfigurationError("bands", "", "no band matches score 11")
			w := do(mux, http.MethodGet, "/pipeline", nil)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode[map[string]string](w)["code"], ShouldEqual, "configuration_error")
		})
	})
}

func TestClassifyAndReload(t *testing.T) {
	Convey("Given a registered API", t, func() {
		deps := &mockDeps{started: true}
		mux := newMux(deps)

		Convey("Classify converts the request into a score set", func() {
			w := do(mux, http.MethodPost, "/classify", []byte(`{"scores": {"A": 9, "b": 8, "C": 7.5, "D": null}}`))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastScores.Len(), ShouldEqual, 3)
			res := decode[types.ClassifyResult](w)
			So(res.Category.Key, ShouldEqual, "superstar")
		})

		Convey("Malformed classify bodies are rejected", func() {
			for _, body := range []string{`{`, `{}`, `{"scores": {"E": 1}}`, `{"scores": {}, "extra": 1}`} {
				w := do(mux, http.MethodPost, "/classify", []byte(body))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("Out-of-scale scores are unprocessable", func() {
			w := do(mux, http.MethodPost, "/classify", []byte(`{"scores": {"A": 11}}`))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[map[string]string](w)["code"], ShouldEqual, "invalid_input")
		})

		Convey("Reload reports rejected records", func() {
			w := do(mux, http.MethodPost, "/reload", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode[map[string]any](w)
			So(body["accepted"], ShouldEqual, float64(1))
			rejected := body["rejected"].([]any)
			So(len(rejected), ShouldEqual, 1)
			So(rejected[0].(map[string]any)["reason"], ShouldEqual, ingest.ReasonInvalidEmail)
		})

		Convey("A failed reload is a server error", func() {
			deps.err = errors.New("open data/employees.csv: no such file")
			w := do(mux, http.MethodPost, "/reload", nil)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("NewKind and Wrap keep the error chain", t, func() {
		err := api.NewKind("api.op", api.ErrBadRequest, "limit")
		So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.op: bad request: limit")

		So(api.Wrap("api.op", nil), ShouldBeNil)
		So(errors.Is(api.Wrap("api.op", repository.ErrNotFound), repository.ErrNotFound), ShouldBeTrue)
	})
}
