package query_test

import (
	"context"
	"testing"

	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntries(t *testing.T) {
	ctx := context.Background()

	entries := []model.CatalogEntry{
		{ID: "auth", Name: "Authentication", Category: "Backend", TechStack: "go", Tags: []string{"security", "core"}},
		{ID: "login-ui", Name: "Login Screen", Category: "Frontend", TechStack: "react", Tags: []string{"security"}},
		{ID: "reports", Name: "Reporting", Category: "Backend", TechStack: "go", Tags: []string{"analytics"}},
		{ID: "no-tags", Name: "Untagged", Category: "Misc", TechStack: "", Tags: nil},
	}

	Convey("Given a catalog of entries", t, func() {
		Convey("When no filters are set", func() {
			res := query.Entries(ctx, entries, query.Filter{})
			Convey("Then every entry is returned", func() {
				So(res.Entries, ShouldHaveLength, 4)
				So(res.TotalCount, ShouldEqual, 4)
			})
		})

		Convey("When filtering by category", func() {
			res := query.Entries(ctx, entries, query.Filter{Category: "backend"})
			Convey("Then matching is case-insensitive", func() {
				So(res.TotalCount, ShouldEqual, 2)
				So(res.Entries[0].ID, ShouldEqual, "auth")
				So(res.Entries[1].ID, ShouldEqual, "reports")
			})
		})

		Convey("When filtering by tech stack", func() {
			res := query.Entries(ctx, entries, query.Filter{TechStack: "GO"})
			So(res.TotalCount, ShouldEqual, 2)
		})

		Convey("When filtering by tag", func() {
			res := query.Entries(ctx, entries, query.Filter{Tag: "SECURITY"})
			Convey("Then tag membership is case-insensitive", func() {
				So(res.TotalCount, ShouldEqual, 2)
				So(res.Entries[0].ID, ShouldEqual, "auth")
				So(res.Entries[1].ID, ShouldEqual, "login-ui")
			})
		})

		Convey("When combining predicates", func() {
			res := query.Entries(ctx, entries, query.Filter{Category: "Backend", Tag: "security"})
			Convey("Then every predicate must match", func() {
				So(res.TotalCount, ShouldEqual, 1)
				So(res.Entries[0].ID, ShouldEqual, "auth")
			})
		})

		Convey("When nothing matches", func() {
			res := query.Entries(ctx, entries, query.Filter{Category: "Mobile"})
			Convey("Then the result is empty, not nil", func() {
				So(res.Entries, ShouldNotBeNil)
				So(res.Entries, ShouldBeEmpty)
				So(res.TotalCount, ShouldEqual, 0)
			})
		})

		Convey("When filters are applied they are echoed back", func() {
			f := query.Filter{Category: "Backend", TechStack: "go", Tag: "core"}
			res := query.Entries(ctx, entries, f)
			So(res.AppliedFilters, ShouldResemble, f)
		})
	})
}
