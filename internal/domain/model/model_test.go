package model_test

import (
	"testing"
	"time"

	"github.com/scopeworks/estimator/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHasTag(t *testing.T) {
	Convey("Given an entry with tags", t, func() {
		e := model.CatalogEntry{Tags: []string{"Security", "core"}}

		Convey("Then lookup is case-insensitive", func() {
			So(e.HasTag("security"), ShouldBeTrue)
			So(e.HasTag("SECURITY"), ShouldBeTrue)
			So(e.HasTag("Core"), ShouldBeTrue)
		})
		Convey("Then absent tags do not match", func() {
			So(e.HasTag("analytics"), ShouldBeFalse)
			So(e.HasTag(""), ShouldBeFalse)
		})
	})

	Convey("Given an entry without tags", t, func() {
		e := model.CatalogEntry{}
		So(e.HasTag("anything"), ShouldBeFalse)
	})
}

func TestSnapshotLookups(t *testing.T) {
	snap := &model.CatalogSnapshot{
		Roles: []model.Role{
			{ID: "dev", Name: "Developer"},
			{ID: "qa", Name: "QA"},
		},
		Entries: []model.CatalogEntry{
			{ID: "auth", Name: "Authentication"},
		},
	}

	Convey("Given a populated snapshot", t, func() {
		Convey("When looking up an existing role", func() {
			r, ok := snap.Role("qa")
			So(ok, ShouldBeTrue)
			So(r.Name, ShouldEqual, "QA")
		})
		Convey("When looking up a missing role", func() {
			_, ok := snap.Role("architect")
			So(ok, ShouldBeFalse)
		})
		Convey("When looking up an existing entry", func() {
			e, ok := snap.Entry("auth")
			So(ok, ShouldBeTrue)
			So(e.Name, ShouldEqual, "Authentication")
		})
		Convey("When looking up a missing entry", func() {
			_, ok := snap.Entry("nope")
			So(ok, ShouldBeFalse)
		})
		Convey("When collecting role ids", func() {
			ids := snap.RoleIDs()
			So(ids, ShouldHaveLength, 2)
			So(ids, ShouldContainKey, "dev")
			So(ids, ShouldContainKey, "qa")
		})
	})
}

func TestClone(t *testing.T) {
	Convey("Given a snapshot with nested slices", t, func() {
		orig := &model.CatalogSnapshot{
			Version:   "v1",
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Roles: []model.Role{
				{ID: "dev", ProductivityMultiplier: 0.7},
			},
			Entries: []model.CatalogEntry{
				{
					ID:              "auth",
					Tags:            []string{"security"},
					MediumEstimates: []model.RoleEstimate{{RoleID: "dev", Hours: 24}},
				},
			},
		}

		Convey("When cloning and mutating the clone", func() {
			c := orig.Clone()
			c.Roles[0].ProductivityMultiplier = 1.5
			c.Entries[0].Tags[0] = "changed"
			c.Entries[0].MediumEstimates[0].Hours = 99
			c.Entries = append(c.Entries, model.CatalogEntry{ID: "extra"})

			Convey("Then the original is untouched", func() {
				So(orig.Roles[0].ProductivityMultiplier, ShouldEqual, 0.7)
				So(orig.Entries[0].Tags[0], ShouldEqual, "security")
				So(orig.Entries[0].MediumEstimates[0].Hours, ShouldEqual, 24)
				So(orig.Entries, ShouldHaveLength, 1)
			})
			Convey("Then scalar fields carry over", func() {
				So(c.Version, ShouldEqual, "v1")
				So(c.Timestamp.Equal(orig.Timestamp), ShouldBeTrue)
			})
		})

		Convey("When cloning a snapshot with nil nested slices", func() {
			empty := &model.CatalogSnapshot{Entries: []model.CatalogEntry{{ID: "bare"}}}
			c := empty.Clone()
			So(c.Entries[0].Tags, ShouldBeNil)
			So(c.Entries[0].MediumEstimates, ShouldBeNil)
		})
	})
}
