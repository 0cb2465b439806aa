package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/scopeworks/estimator/internal/adapters/http/api"
	"github.com/scopeworks/estimator/internal/adapters/repository"
	service "github.com/scopeworks/estimator/internal/app"
	"github.com/scopeworks/estimator/internal/domain/estimate"
	"github.com/scopeworks/estimator/internal/domain/model"
	"github.com/scopeworks/estimator/internal/domain/query"
)

// fakeDeps implements api.Dependencies with canned behavior per test.
type fakeDeps struct {
	featuresFn    func(ctx context.Context, f query.Filter) (query.Result, error)
	estimateFn    func(ctx context.Context, selections []model.SizeSelection) (*estimate.Breakdown, error)
	roles         []model.Role
	entries       []model.CatalogEntry
	saveRoleErr   error
	deleteRoleErr error
	saveEntryErr  error
	reloadErr     error

	savedRole  *model.Role
	savedEntry *model.CatalogEntry
}

func (f *fakeDeps) Features(ctx context.Context, q query.Filter) (query.Result, error) {
	return f.featuresFn(ctx, q)
}

func (f *fakeDeps) Estimate(ctx context.Context, selections []model.SizeSelection) (*estimate.Breakdown, error) {
	return f.estimateFn(ctx, selections)
}

func (f *fakeDeps) Roles(context.Context) ([]model.Role, error) { return f.roles, nil }

func (f *fakeDeps) Role(_ context.Context, id string) (model.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Role{}, repository.ErrNotFound
}

func (f *fakeDeps) Entries(context.Context) ([]model.CatalogEntry, error) { return f.entries, nil }

func (f *fakeDeps) Entry(_ context.Context, id string) (model.CatalogEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.CatalogEntry{}, repository.ErrNotFound
}

func (f *fakeDeps) SaveRole(_ context.Context, role model.Role) error {
	if f.saveRoleErr != nil {
		return f.saveRoleErr
	}
	f.savedRole = &role
	return nil
}

func (f *fakeDeps) DeleteRole(context.Context, string) error { return f.deleteRoleErr }

func (f *fakeDeps) SaveEntry(_ context.Context, entry model.CatalogEntry) error {
	if f.saveEntryErr != nil {
		return f.saveEntryErr
	}
	f.savedEntry = &entry
	return nil
}

func (f *fakeDeps) DeleteEntry(context.Context, string) error { return nil }

func (f *fakeDeps) Reload(context.Context) error { return f.reloadErr }

// fakeStats implements api.StatsProvider.
type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"loaded": true}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	r := chi.NewRouter()
	api.NewServer(deps, fakeStats{}).Register(r)
	return httptest.NewServer(r)
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestToolRoutes(t *testing.T) {
	Convey("Given a running API server", t, func() {
		deps := &fakeDeps{
			featuresFn: func(_ context.Context, f query.Filter) (query.Result, error) {
				return query.Result{
					Entries:        []model.CatalogEntry{{ID: "auth", Name: "Auth", Category: "Backend"}},
					AppliedFilters: f,
					TotalCount:     1,
				}, nil
			},
			estimateFn: func(_ context.Context, selections []model.SizeSelection) (*estimate.Breakdown, error) {
				return &estimate.Breakdown{
					Grand: estimate.GrandTotal{FinalHours: 26.9, FinalDays: 3.4},
				}, nil
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When calling get_catalog_features with a filter", func() {
			resp := do(t, http.MethodPost, srv.URL+"/tools/get_catalog_features", `{"category":"Backend"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var result query.Result
			decodeBody(t, resp, &result)
			Convey("Then the filter is echoed and entries returned", func() {
				So(result.TotalCount, ShouldEqual, 1)
				So(result.AppliedFilters.Category, ShouldEqual, "Backend")
				So(result.Entries[0].ID, ShouldEqual, "auth")
			})
		})

		Convey("When the features payload has unknown fields", func() {
			resp := do(t, http.MethodPost, srv.URL+"/tools/get_catalog_features", `{"catgory":"typo"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When calling calculate_estimate with valid selections", func() {
			resp := do(t, http.MethodPost, srv.URL+"/tools/calculate_estimate",
				`{"selections":[{"featureId":"auth","size":"L"}]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var breakdown estimate.Breakdown
			decodeBody(t, resp, &breakdown)
			So(breakdown.Grand.FinalHours, ShouldEqual, 26.9)
		})

		Convey("When the estimate fails validation", func() {
			deps.estimateFn = func(context.Context, []model.SizeSelection) (*estimate.Breakdown, error) {
				return nil, estimate.ValidationErrors{
					{Code: estimate.CodeInvalidSize, FeatureID: "auth", Size: "XXL", Message: "invalid size XXL"},
					{Code: estimate.CodeUnknownFeature, FeatureID: "ghost", Message: "unknown feature id: ghost"},
				}
			}
			resp := do(t, http.MethodPost, srv.URL+"/tools/calculate_estimate",
				`{"selections":[{"featureId":"auth","size":"XXL"},{"featureId":"ghost","size":"M"}]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)

			var body struct {
				Code    string                    `json:"code"`
				Message string                    `json:"message"`
				Errors  estimate.ValidationErrors `json:"errors"`
			}
			decodeBody(t, resp, &body)
			Convey("Then the payload carries every validation problem", func() {
				So(body.Code, ShouldEqual, "validation_failed")
				So(body.Errors, ShouldHaveLength, 2)
				So(body.Errors[0].Code, ShouldEqual, estimate.CodeInvalidSize)
				So(body.Errors[1].Code, ShouldEqual, estimate.CodeUnknownFeature)
			})
		})

		Convey("When too many selections are sent", func() {
			deps.estimateFn = func(context.Context, []model.SizeSelection) (*estimate.Breakdown, error) {
				return nil, service.ErrTooManySelections
			}
			resp := do(t, http.MethodPost, srv.URL+"/tools/calculate_estimate", `{"selections":[]}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching the agent instructions", func() {
			resp := do(t, http.MethodGet, srv.URL+"/tools/get_instructions", "")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/markdown")
		})

		Convey("When any request is served", func() {
			resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
			defer resp.Body.Close()
			Convey("Then a request id is echoed back", func() {
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})
	})
}

func TestCatalogRoutes(t *testing.T) {
	Convey("Given a running API server with a seeded catalog", t, func() {
		deps := &fakeDeps{
			roles: []model.Role{
				{ID: "dev", Name: "Developer", ProductivityMultiplier: 0.7},
			},
			entries: []model.CatalogEntry{
				{ID: "auth", Name: "Auth", Category: "Backend"},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When listing roles", func() {
			resp := do(t, http.MethodGet, srv.URL+"/catalog/roles", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var body struct {
				Roles      []model.Role `json:"roles"`
				TotalCount int          `json:"totalCount"`
			}
			decodeBody(t, resp, &body)
			So(body.TotalCount, ShouldEqual, 1)
			So(body.Roles[0].ID, ShouldEqual, "dev")
		})

		Convey("When fetching a missing role", func() {
			resp := do(t, http.MethodGet, srv.URL+"/catalog/roles/missing", "")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When upserting a role", func() {
			resp := do(t, http.MethodPut, srv.URL+"/catalog/roles/qa",
				`{"name":"QA Engineer","productivityMultiplier":0.8}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var role model.Role
			decodeBody(t, resp, &role)
			Convey("Then the id comes from the URL", func() {
				So(role.ID, ShouldEqual, "qa")
				So(deps.savedRole.ID, ShouldEqual, "qa")
				So(deps.savedRole.ProductivityMultiplier, ShouldEqual, 0.8)
			})
		})

		Convey("When upserting a role without a multiplier", func() {
			resp := do(t, http.MethodPut, srv.URL+"/catalog/roles/qa", `{"name":"QA Engineer"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When deleting a role with live references", func() {
			deps.deleteRoleErr = &repository.ReferentialIntegrityError{
				EntityType:            "Role",
				ID:                    "dev",
				ReferencingEntryNames: []string{"Auth", "Reporting"},
			}
			resp := do(t, http.MethodDelete, srv.URL+"/catalog/roles/dev", "")
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)

			var body struct {
				Code   string                               `json:"code"`
				Errors repository.ReferentialIntegrityError `json:"errors"`
			}
			decodeBody(t, resp, &body)
			Convey("Then the referencing entries are named in the payload", func() {
				So(body.Code, ShouldEqual, "referential_integrity")
				So(body.Errors.ReferencingEntryNames, ShouldResemble, []string{"Auth", "Reporting"})
			})
		})

		Convey("When deleting an unreferenced role", func() {
			resp := do(t, http.MethodDelete, srv.URL+"/catalog/roles/dev", "")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
		})

		Convey("When upserting an entry that references unknown roles", func() {
			deps.saveEntryErr = &repository.InvalidRoleReferenceError{
				EntryID:        "broken",
				InvalidRoleIDs: []string{"ghost", "phantom"},
			}
			resp := do(t, http.MethodPut, srv.URL+"/catalog/entries/broken",
				`{"name":"Broken","category":"Misc","mediumEstimates":[{"roleId":"ghost","hours":8}]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)

			var body struct {
				Code   string                               `json:"code"`
				Errors repository.InvalidRoleReferenceError `json:"errors"`
			}
			decodeBody(t, resp, &body)
			So(body.Code, ShouldEqual, "invalid_role_reference")
			So(body.Errors.InvalidRoleIDs, ShouldResemble, []string{"ghost", "phantom"})
		})

		Convey("When upserting a valid entry", func() {
			resp := do(t, http.MethodPut, srv.URL+"/catalog/entries/reports",
				`{"name":"Reporting","category":"Backend","tags":["analytics"],"mediumEstimates":[{"roleId":"dev","hours":40}]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.savedEntry.ID, ShouldEqual, "reports")
			So(deps.savedEntry.MediumEstimates, ShouldResemble, []model.RoleEstimate{{RoleID: "dev", Hours: 40}})
		})

		Convey("When upserting an entry with negative hours", func() {
			resp := do(t, http.MethodPut, srv.URL+"/catalog/entries/neg",
				`{"name":"Negative","category":"Misc","mediumEstimates":[{"roleId":"dev","hours":-1}]}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When reloading the catalog", func() {
			resp := do(t, http.MethodPost, srv.URL+"/catalog/reload", "")
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching stats", func() {
			resp := do(t, http.MethodGet, srv.URL+"/stats", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			var stats map[string]interface{}
			decodeBody(t, resp, &stats)
			So(stats["loaded"], ShouldEqual, true)
		})
	})
}
