package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/adapter/http/dto"
	"github.com/iho/memledger/internal/usecase"
)

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		stub       *ledgerServiceStub
		wantStatus int
		wantBody   string
	}{
		{
			name: "consistent",
			stub: &ledgerServiceStub{report: &usecase.ConsistencyReport{
				Consistent:   true,
				TotalBalance: decimal.NewFromInt(1500),
				TotalFunded:  decimal.NewFromInt(1500),
			}},
			wantStatus: http.StatusOK,
			wantBody:   "consistent",
		},
		{
			name: "inconsistent",
			stub: &ledgerServiceStub{
				report: &usecase.ConsistencyReport{TotalBalance: decimal.NewFromInt(1), TotalFunded: decimal.Zero},
				err:    usecase.ErrInconsistentLedger,
			},
			wantStatus: http.StatusConflict,
			wantBody:   "inconsistent",
		},
		{
			name:       "store error",
			stub:       &ledgerServiceStub{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLedgerHandler(tt.stub).CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			if tt.wantBody == "" {
				return
			}

			var resp dto.ConsistencyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Fatalf("expected status %q, got %q", tt.wantBody, resp.Status)
			}
		})
	}
}

type checkerStub struct {
	name string
	err  error
}

func (c checkerStub) Name() string                  { return c.name }
func (c checkerStub) Check(ctx context.Context) error { return c.err }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler().Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler().Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected readiness 200 without dependencies, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(checkerStub{name: "redis"}).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.Code != http.StatusOK || body["redis"] != "ok" {
		t.Fatalf("expected healthy redis, got %d %v", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(checkerStub{name: "redis", err: errors.New("down")}).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
