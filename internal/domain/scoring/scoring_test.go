package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func abcWeights() model.WeightConfig {
	return model.WeightConfig{model.GroupA: 0.3, model.GroupB: 0.4, model.GroupC: 0.3}
}

func ptr(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	Convey("Given the three-group ABC weights", t, func() {
		weights := abcWeights()

		Convey("When every group is present", func() {
			scores := model.NewScoreSet(map[model.GroupKey]float64{
				model.GroupA: 8, model.GroupB: 9, model.GroupC: 7,
			})
			res := scoring.Aggregate(scores, weights)

			Convey("Then the total is the weighted mean", func() {
				So(res.Total, ShouldAlmostEqual, 8.1, 1e-9)
				So(res.HasAnyData, ShouldBeTrue)
				So(res.WeightTotal, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When group B is missing", func() {
			scores := model.ScoreSetFromPointers(map[model.GroupKey]*float64{
				model.GroupA: ptr(8), model.GroupB: nil, model.GroupC: ptr(7),
			})
			res := scoring.Aggregate(scores, weights)

			Convey("Then it is normalized by the present weights only", func() {
				So(res.Total, ShouldAlmostEqual, 7.5, 1e-9)
				So(res.HasAnyData, ShouldBeTrue)
				So(res.WeightTotal, ShouldAlmostEqual, 0.6, 1e-9)
			})
		})

		Convey("When no group is present", func() {
			scores := model.ScoreSetFromPointers(map[model.GroupKey]*float64{
				model.GroupA: nil, model.GroupB: nil, model.GroupC: nil,
			})
			res := scoring.Aggregate(scores, weights)

			Convey("Then the total is zero and flagged as no data", func() {
				So(res.Total, ShouldEqual, 0)
				So(res.HasAnyData, ShouldBeFalse)
			})
		})

		Convey("When a present group has no weight", func() {
			scores := model.NewScoreSet(map[model.GroupKey]float64{model.GroupD: 2, model.GroupA: 6})
			res := scoring.Aggregate(scores, weights)

			Convey("Then it is ignored", func() {
				So(res.Total, ShouldAlmostEqual, 6, 1e-9)
			})
		})

		Convey("When only zero-weight groups are present", func() {
			scores := model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 9})
			res := scoring.Aggregate(scores, model.WeightConfig{model.GroupA: 0, model.GroupB: 1})

			Convey("Then it reports no data", func() {
				So(res.Total, ShouldEqual, 0)
				So(res.HasAnyData, ShouldBeFalse)
			})
		})

		Convey("When a value lies outside the scale", func() {
			scores := model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 14, model.GroupC: 6})
			res := scoring.Aggregate(scores, weights)

			Convey("Then it is propagated rather than clamped", func() {
				So(res.Total, ShouldAlmostEqual, 10, 1e-9)
			})
		})
	})
}

func TestAggregateStaysWithinInputRange(t *testing.T) {
	Convey("Given many score sets with positive weights", t, func() {
		weights := model.WeightConfig{model.GroupA: 0.25, model.GroupB: 0.35, model.GroupC: 0.3, model.GroupD: 0.1}
		groups := []model.GroupKey{model.GroupA, model.GroupB, model.GroupC, model.GroupD}

		Convey("Then every total lies between the smallest and largest present score", func() {
			for mask := 1; mask < 16; mask++ {
				for seed := 0; seed < 25; seed++ {
					present := map[model.GroupKey]float64{}
					lo, hi := math.Inf(1), math.Inf(-1)
					for i, g := range groups {
						if mask&(1<<i) == 0 {
							continue
						}
						v := float64((seed*7+i*3)%11) * 0.9
						present[g] = v
						lo = math.Min(lo, v)
						hi = math.Max(hi, v)
					}
					res := scoring.Aggregate(model.NewScoreSet(present), weights)
					So(res.HasAnyData, ShouldBeTrue)
					So(res.Total, ShouldBeGreaterThanOrEqualTo, lo-1e-9)
					So(res.Total, ShouldBeLessThanOrEqualTo, hi+1e-9)
				}
			}
		})
	})
}

func TestWeightedScorer(t *testing.T) {
	Convey("Given weight configurations", t, func() {
		Convey("When the weights are valid", func() {
			w := abcWeights()
			s, err := scoring.NewWeightedScorer(w)

			Convey("Then the scorer copies them", func() {
				So(err, ShouldBeNil)
				w[model.GroupA] = 100
				So(s.Weights()[model.GroupA], ShouldEqual, 0.3)
				res := s.Score(model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 8, model.GroupB: 9, model.GroupC: 7}))
				So(res.Total, ShouldAlmostEqual, 8.1, 1e-9)
			})
		})

		Convey("When every weight is zero", func() {
			_, err := scoring.NewWeightedScorer(model.WeightConfig{model.GroupA: 0, model.GroupB: 0})

			Convey("Then a configuration error is returned", func() {
				So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
				var cfgErr *model.ConfigurationError
				So(errors.As(err, &cfgErr), ShouldBeTrue)
				So(cfgErr.Component, ShouldEqual, "weights")
			})
		})

		Convey("When a weight is negative", func() {
			err := scoring.ValidateWeights(model.WeightConfig{model.GroupA: 1, model.GroupB: -0.2})

			Convey("Then the offending group is named", func() {
				So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `"B"`)
			})
		})

		Convey("When a weight is not finite", func() {
			err := scoring.ValidateWeights(model.WeightConfig{model.GroupA: math.NaN()})
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When no weight is configured", func() {
			err := scoring.ValidateWeights(nil)
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
		})
	})
}

func TestValidateScoreSet(t *testing.T) {
	Convey("Given score sets at the ingestion boundary", t, func() {
		Convey("When every value is on the scale", func() {
			err := scoring.ValidateScoreSet("NV001", model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 0, model.GroupB: 10}))
			So(err, ShouldBeNil)
		})

		Convey("When a value is above the scale", func() {
			err := scoring.ValidateScoreSet("NV002", model.NewScoreSet(map[model.GroupKey]float64{model.GroupC: 10.5}))

			Convey("Then an input data error names the group", func() {
				So(errors.Is(err, model.ErrInputData), ShouldBeTrue)
				var inErr *model.InputDataError
				So(errors.As(err, &inErr), ShouldBeTrue)
				So(inErr.Field, ShouldEqual, "groupC")
				So(inErr.Record, ShouldEqual, "NV002")
			})
		})

		Convey("When a value is negative", func() {
			err := scoring.ValidateScoreSet("NV003", model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: -1}))
			So(errors.Is(err, model.ErrInputData), ShouldBeTrue)
		})
	})
}

func TestLegacyScale(t *testing.T) {
	Convey("Given values on the legacy 0-3 survey scale", t, func() {
		Convey("Then they map linearly onto 0-10", func() {
			So(scoring.FromLegacyScale(0), ShouldEqual, 0)
			So(scoring.FromLegacyScale(3), ShouldAlmostEqual, 10, 1e-9)
			So(scoring.FromLegacyScale(1.5), ShouldAlmostEqual, 5, 1e-9)
		})

		Convey("Then a whole score set is converted without touching the original", func() {
			orig := model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 3, model.GroupB: 0.6})
			conv := scoring.NormalizeLegacy(orig)
			a, _ := conv.Get(model.GroupA)
			b, _ := conv.Get(model.GroupB)
			So(a, ShouldAlmostEqual, 10, 1e-9)
			So(b, ShouldAlmostEqual, 2, 1e-9)
			origA, _ := orig.Get(model.GroupA)
			So(origA, ShouldEqual, 3)
		})
	})
}

func TestValidateLegacyScoreSet(t *testing.T) {
	Convey("Given legacy score sets", t, func() {
		So(scoring.ValidateLegacyScoreSet("r1", model.NewScoreSet(map[model.GroupKey]float64{model.GroupA: 3, model.GroupD: 0})), ShouldBeNil)

		err := scoring.ValidateLegacyScoreSet("r2", model.NewScoreSet(map[model.GroupKey]float64{model.GroupB: 7.5}))
		So(errors.Is(err, model.ErrInputData), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "groupB")

		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			err = scoring.ValidateLegacyScoreSet("r3", model.NewScoreSet(map[model.GroupKey]float64{model.GroupC: v}))
			So(errors.Is(err, model.ErrInputData), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "not a finite number")
		}
	})
}
