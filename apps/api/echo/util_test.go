package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/studyplan/apps/api/echo"
	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
	"github.com/trezcool/studyplan/services/email"
	"github.com/trezcool/studyplan/services/logger"
	"github.com/trezcool/studyplan/storage/database/dummy"
)

func setup(t *testing.T) (*Server, planner.Repository) {
	conf := &core.Config{
		AppName:         "StudyPlan",
		TestMode:        true,
		FromEmail:       "noreply@test.test",
		ReminderHorizon: 72 * time.Hour,
	}
	logger := logsvc.NewZeroLogger(zerolog.Nop())

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewPlannerRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	svc := planner.NewService(repo, mailSvc, conf)
	validate, translator := core.NewValidator()

	server := NewServer(&Options{
		TestMode:       true,
		DisableReqLogs: true,
		Logger:         logger,
		PlannerSvc:     svc,
		Validate:       validate,
		Translator:     translator,
	})
	return server, repo
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func serve(t *testing.T, server *Server, method, path string, data interface{}, out interface{}) int {
	var body []byte
	if data != nil {
		body = marshalObj(t, data)
	}
	req, rec := newRequest(method, path, body)
	server.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, server *Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newRequest(method, tt.path, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
