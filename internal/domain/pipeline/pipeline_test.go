package pipeline_test

import (
	"errors"
	"testing"

	"github.com/okian/abcboard/internal/domain/category"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	. "github.com/smartystreets/goconvey/convey"
)

func bands() []model.Band {
	return []model.Band{
		{Key: "superstar", Lower: model.Bound(8)},
		{Key: "golden_potential", Lower: model.Bound(7), Upper: model.Bound(8)},
		{Key: "solid_pillar", Lower: model.Bound(6.5), Upper: model.Bound(7)},
		{Key: "rough_diamond", Lower: model.Bound(5.5), Upper: model.Bound(6.5)},
		{Key: "performer", Lower: model.Bound(5), Upper: model.Bound(5.5)},
		{Key: "developing", Lower: model.Bound(4), Upper: model.Bound(5)},
		{Key: "risk", Upper: model.Bound(4)},
	}
}

func rules() []pipeline.Rule {
	return []pipeline.Rule{
		{Name: pipeline.ReadyForPromotion, Categories: []string{"superstar", "golden_potential"}},
		{Name: pipeline.HighPotential, Categories: []string{"rough_diamond"}},
		{Name: pipeline.NeedsDevelopment, Categories: []string{"developing"}},
		{Name: pipeline.CriticalRetention, Categories: []string{"solid_pillar"}, MinScoreExclusive: model.Bound(6.75)},
	}
}

func classified(c *category.Classifier, id string, total float64) model.ClassifiedEmployee {
	b, err := c.Classify(total)
	So(err, ShouldBeNil)
	return model.ClassifiedEmployee{Employee: model.Employee{ID: id}, TotalScore: total, HasAnyData: true, Category: b}
}

func ids(in []model.ClassifiedEmployee) []string {
	out := make([]string, len(in))
	for i, e := range in {
		out[i] = e.Employee.ID
	}
	return out
}

func TestBucket(t *testing.T) {
	Convey("Given the default talent pipeline rules", t, func() {
		c, err := category.NewClassifier(bands())
		So(err, ShouldBeNil)
		b, err := pipeline.NewBucketer(rules(), bands())
		So(err, ShouldBeNil)

		Convey("When bucketing an empty population", func() {
			res := b.Bucket(nil)

			Convey("Then every bucket is present and empty", func() {
				So(len(res), ShouldEqual, 4)
				for _, name := range b.Names() {
					members, ok := res[name]
					So(ok, ShouldBeTrue)
					So(members, ShouldNotBeNil)
					So(members, ShouldBeEmpty)
				}
			})
		})

		Convey("When bucketing a mixed population", func() {
			emps := []model.ClassifiedEmployee{
				classified(c, "e1", 8.4),
				classified(c, "e2", 7.1),
				classified(c, "e3", 6.0),
				classified(c, "e4", 4.2),
				classified(c, "e5", 6.9),
				classified(c, "e6", 6.6),
				classified(c, "e7", 2.0),
			}
			res := b.Bucket(emps)

			Convey("Then members are assigned by category and threshold", func() {
				So(ids(res[pipeline.ReadyForPromotion]), ShouldResemble, []string{"e1", "e2"})
				So(ids(res[pipeline.HighPotential]), ShouldResemble, []string{"e3"})
				So(ids(res[pipeline.NeedsDevelopment]), ShouldResemble, []string{"e4"})
				So(ids(res[pipeline.CriticalRetention]), ShouldResemble, []string{"e5"})
			})
		})

		Convey("When rules overlap", func() {
			overlapping := append(rules(), pipeline.Rule{Name: "solid_core", Categories: []string{"solid_pillar"}})
			ob, err := pipeline.NewBucketer(overlapping, bands())
			So(err, ShouldBeNil)
			res := ob.Bucket([]model.ClassifiedEmployee{classified(c, "e5", 6.9)})

			Convey("Then an employee may sit in several buckets", func() {
				So(ids(res[pipeline.CriticalRetention]), ShouldResemble, []string{"e5"})
				So(ids(res["solid_core"]), ShouldResemble, []string{"e5"})
			})
		})

		Convey("When an employee has no category", func() {
			res := b.Bucket([]model.ClassifiedEmployee{{Employee: model.Employee{ID: "x"}}})
			So(res[pipeline.ReadyForPromotion], ShouldBeEmpty)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given bucket rules to validate", t, func() {
		Convey("When a category is unknown", func() {
			err := pipeline.Validate([]pipeline.Rule{{Name: "x", Categories: []string{"wizard"}}}, bands())
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `unknown category "wizard"`)
		})

		Convey("When the threshold equals the tier's lower bound", func() {
			err := pipeline.Validate([]pipeline.Rule{{Name: "x", Categories: []string{"solid_pillar"}, MinScoreExclusive: model.Bound(6.5)}}, bands())
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When the threshold is above the tier's upper bound", func() {
			err := pipeline.Validate([]pipeline.Rule{{Name: "x", Categories: []string{"solid_pillar"}, MinScoreExclusive: model.Bound(7.5)}}, bands())
			So(errors.Is(err, model.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "leaves no room")
		})

		Convey("When names repeat or are missing", func() {
			So(pipeline.Validate([]pipeline.Rule{{Categories: []string{"risk"}}}, bands()), ShouldNotBeNil)
			dup := []pipeline.Rule{{Name: "a", Categories: []string{"risk"}}, {Name: "a", Categories: []string{"risk"}}}
			So(pipeline.Validate(dup, bands()).Error(), ShouldContainSubstring, "duplicate bucket name")
		})

		Convey("When a rule selects nothing", func() {
			So(pipeline.Validate([]pipeline.Rule{{Name: "a"}}, bands()), ShouldNotBeNil)
		})

		Convey("When the default rules are used", func() {
			So(pipeline.Validate(rules(), bands()), ShouldBeNil)
		})
	})
}
