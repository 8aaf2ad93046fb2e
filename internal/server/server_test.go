package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, New(nil, 0), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPlan_PacksJob(t *testing.T) {
	body := `{
		"name": "Scenario",
		"settings": {"roll_width": 1000},
		"pieces": [
			{"label": "A", "width": 600, "height": 200, "quantity": 1},
			{"label": "B", "width": 400, "height": 250, "quantity": 1}
		]
	}`
	rec := do(t, New(nil, time.Second), http.MethodPost, "/v1/plans", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan model.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "Scenario", plan.Name)
	require.Len(t, plan.Result.Rows, 1)
	assert.Equal(t, 1000, plan.Result.Rows[0].UsedWidth)
	assert.Equal(t, 250, plan.Result.Rows[0].Height)
	assert.Empty(t, plan.Result.Unplaced)
	assert.Equal(t, 250, plan.Metrics.TotalLength)
}

func TestPlan_DefaultsApplyToMissingSettings(t *testing.T) {
	body := `{"pieces": [{"width": 1050, "height": 100, "quantity": 2}]}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/plans", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan model.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, model.DefaultRollWidth, plan.RollWidth)
	assert.Len(t, plan.Result.Rows, 2)
}

func TestPlan_ValidationErrors(t *testing.T) {
	body := `{"settings": {"roll_width": 500}, "pieces": [{"width": 600, "height": 700, "quantity": 0}]}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/plans", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid job", resp.Error)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "quantity", resp.Details[0].Field)
	require.NotNil(t, resp.Details[0].Piece)
	assert.Equal(t, 1, *resp.Details[0].Piece)
	assert.Equal(t, "size", resp.Details[1].Field)
}

func TestPlan_BadBody(t *testing.T) {
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/plans", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	body := `{"name": "Shop", "pieces": [{"label": "Door", "width": 500, "height": 300, "quantity": 1}]}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/plans/report", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "CUTTING PLAN: Shop")
}

func TestEstimate(t *testing.T) {
	body := `{"pieces": [{"width": 1000, "height": 3000, "quantity": 1}], "roll_width": 1000, "roll_length": 2000, "waste_percent": 10, "price_per_meter": 12.5}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/estimate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var est model.RollEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
	assert.Equal(t, 3000, est.MinLength)
	assert.Equal(t, 3300, est.LengthWithWaste)
	assert.Equal(t, 2, est.RollsWithWaste)
	assert.InDelta(t, 41.25, est.EstimatedCost, 1e-9)

	rec = do(t, New(nil, 0), http.MethodPost, "/v1/estimate", `{"roll_width": -1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlan_RejectsTooManyPieces(t *testing.T) {
	body := `{"pieces": [{"width": 10, "height": 10, "quantity": 2000000000}]}`
	rec := do(t, New(nil, time.Second), http.MethodPost, "/v1/plans", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "quantity", resp.Details[0].Field)
}

func TestPlan_RejectsOversizedBody(t *testing.T) {
	body := `{"name": "` + strings.Repeat("x", MaxBodyBytes) + `"}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/plans", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestEstimate_ValidatesPieces(t *testing.T) {
	body := `{"roll_width": 1000, "pieces": [{"width": -100, "height": 300, "quantity": 0}]}`
	rec := do(t, New(nil, 0), http.MethodPost, "/v1/estimate", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "width", resp.Details[0].Field)
	assert.Equal(t, "quantity", resp.Details[1].Field)
	require.NotNil(t, resp.Details[0].Piece)
	assert.Equal(t, 1, *resp.Details[0].Piece)

	rec = do(t, New(nil, 0), http.MethodPost, "/v1/estimate", `{"roll_width": 0, "pieces": [{"width": 10, "height": 10, "quantity": 1}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var widthResp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &widthResp))
	require.Len(t, widthResp.Details, 1)
	assert.Equal(t, "roll_width", widthResp.Details[0].Field)
	assert.Nil(t, widthResp.Details[0].Piece)
}
