package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripnotes/internal/models/request_models"
	"tripnotes/internal/models/response_models"
	"tripnotes/internal/services"
	"tripnotes/pkg/utils"
)

type fakeGenerationService struct {
	err         error
	projectID   string
	versionName string
}

func (f *fakeGenerationService) GeneratePlan(ctx context.Context, projectID string, versionName string) (*response_models.PlanResponse, error) {
	f.projectID, f.versionName = projectID, versionName
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.PlanResponse{ID: uuid.NewString(), ProjectID: projectID, VersionName: versionName, Source: "model"}, nil
}

// fakePlanService embeds the interface; unimplemented methods panic, which
// the tests never reach.
type fakePlanService struct {
	services.PlanServiceInterface
	err       error
	listQuery request_models.ListPlansQuery
	compared  [2]string
}

func (f *fakePlanService) GetPlan(ctx context.Context, planID string) (*response_models.PlanResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.PlanResponse{ID: planID, VersionName: "v1"}, nil
}

func (f *fakePlanService) ListPlans(ctx context.Context, projectID string, query request_models.ListPlansQuery) (*response_models.PlanPage, error) {
	f.listQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.PlanPage{Items: []response_models.PlanSummary{}, Page: 1, PageSize: 10}, nil
}

func (f *fakePlanService) DeletePlan(ctx context.Context, planID string) error {
	return f.err
}

func (f *fakePlanService) MarkProjectOutdated(ctx context.Context, projectID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func (f *fakePlanService) ComparePlans(ctx context.Context, plan1ID, plan2ID string) (*response_models.ComparisonResult, error) {
	f.compared = [2]string{plan1ID, plan2ID}
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.ComparisonResult{Plan1ID: plan1ID, Plan2ID: plan2ID, Differences: []response_models.DayDiff{}}, nil
}

func (f *fakePlanService) RenamePlan(ctx context.Context, planID string, versionName string) (*response_models.PlanResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response_models.PlanResponse{ID: planID, VersionName: versionName}, nil
}

func newTestRouter(t *testing.T, ps services.PlanServiceInterface, gs services.GenerationServiceInterface) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterGinValidations())
	r := gin.New()
	NewPlanController(ps, gs, zap.NewNop()).Register(r)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var env utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestPlanController_GeneratePlan(t *testing.T) {
	gs := &fakeGenerationService{}
	r := newTestRouter(t, &fakePlanService{}, gs)
	projectID := uuid.NewString()

	w := doRequest(r, http.MethodPost, "/projects/"+projectID+"/plans", `{"version_name":"Summer"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, projectID, gs.projectID)
	assert.Equal(t, "Summer", gs.versionName)
}

func TestPlanController_GeneratePlan_BadBody(t *testing.T) {
	r := newTestRouter(t, &fakePlanService{}, &fakeGenerationService{})
	path := "/projects/" + uuid.NewString() + "/plans"

	for _, body := range []string{`{}`, `{"version_name":"   "}`, `{"version_name":"` + strings.Repeat("x", 51) + `"}`, `not json`} {
		w := doRequest(r, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestPlanController_GeneratePlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{utils.ErrPlanLimitExceeded, http.StatusUnprocessableEntity},
		{utils.ErrVersionNameConflict, http.StatusConflict},
		{utils.ErrMissingConfiguration, http.StatusPreconditionFailed},
		{utils.ErrInvalidInput, http.StatusBadRequest},
		{utils.DatabaseError(assert.AnError), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newTestRouter(t, &fakePlanService{}, &fakeGenerationService{err: tt.err})
			w := doRequest(r, http.MethodPost, "/projects/"+uuid.NewString()+"/plans", `{"version_name":"v1"}`)
			assert.Equal(t, tt.code, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.code, env.Code)
			assert.NotContains(t, env.Message, assert.AnError.Error(), "internal causes are not leaked")
		})
	}
}

func TestPlanController_ListPlans(t *testing.T) {
	ps := &fakePlanService{}
	r := newTestRouter(t, ps, &fakeGenerationService{})
	base := "/projects/" + uuid.NewString() + "/plans"

	w := doRequest(r, http.MethodGet, base+"?page=2&pageSize=5&includeOutdated=true&sortBy=version_name&order=asc", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, request_models.ListPlansQuery{
		Page: 2, PageSize: 5, IncludeOutdated: true, SortBy: "version_name", Order: "asc",
	}, ps.listQuery)

	w = doRequest(r, http.MethodGet, base+"?sortBy=id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, base+"?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ps.err = utils.ErrInvalidPageSize
	w = doRequest(r, http.MethodGet, base+"?pageSize=1000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanController_GetRenameDelete(t *testing.T) {
	ps := &fakePlanService{}
	r := newTestRouter(t, ps, &fakeGenerationService{})
	planID := uuid.NewString()

	w := doRequest(r, http.MethodGet, "/plans/"+planID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPatch, "/plans/"+planID, `{"version_name":"Final"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version_name":"Final"`)

	w = doRequest(r, http.MethodDelete, "/plans/"+planID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	ps.err = utils.ErrPlanNotFound
	w = doRequest(r, http.MethodGet, "/plans/"+planID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(r, http.MethodDelete, "/plans/"+planID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	ps.err = utils.ErrVersionNameConflict
	w = doRequest(r, http.MethodPatch, "/plans/"+planID, `{"version_name":"Taken"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPlanController_ComparePlans(t *testing.T) {
	ps := &fakePlanService{}
	r := newTestRouter(t, ps, &fakeGenerationService{})
	p1, p2 := uuid.NewString(), uuid.NewString()

	w := doRequest(r, http.MethodGet, "/plans/compare?plan1="+p1+"&plan2="+p2, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [2]string{p1, p2}, ps.compared)
	assert.Contains(t, w.Body.String(), `"differences":[]`)

	w = doRequest(r, http.MethodGet, "/plans/compare?plan1="+p1, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/plans/compare?plan1=abc&plan2="+p2, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanController_ConfigUpdated(t *testing.T) {
	ps := &fakePlanService{}
	r := newTestRouter(t, ps, &fakeGenerationService{})

	w := doRequest(r, http.MethodPost, "/projects/"+uuid.NewString()+"/config-updated", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outdated":3`)

	ps.err = utils.DatabaseError(assert.AnError)
	w = doRequest(r, http.MethodPost, "/projects/"+uuid.NewString()+"/config-updated", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
