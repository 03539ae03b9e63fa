package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"

	"docindex/internal/docindex/handler"
	"docindex/internal/docindex/mapping"
	"docindex/internal/docindex/metrics"
	"docindex/internal/docindex/model"
	"docindex/internal/docindex/router"

	"github.com/labstack/echo/v4"
)

// SetupServer wires the full route table around svc. The mapping context
// already knows Article and Comment.
func SetupServer(svc *MockArticleService) (*echo.Echo, *metrics.Metrics) {
	mappings := mapping.NewContext()
	if _, err := mapping.EntityFor[model.Article](mappings); err != nil {
		panic(err)
	}
	if _, err := mapping.EntityFor[model.Comment](mappings); err != nil {
		panic(err)
	}

	m := metrics.NewMetrics()
	e := echo.New()
	router.RegisterRoutes(e, handler.NewArticleHandler(svc), handler.NewMappingHandler(mappings), m)
	return e, m
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) model.ErrorResponse {
	var resp model.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}
