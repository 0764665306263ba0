package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func confirmBody(accountID string) string {
	return fmt.Sprintf(`{"accountID":%q,"planCode":"QUARTERLY","amount":"14000.00","currency":"NGN","gatewayReference":"gw-77"}`, accountID)
}

func TestConfirmPayment(t *testing.T) {
	id := uuid.NewString()
	matchesRequest := mock.MatchedBy(func(req dto.ConfirmPaymentRequest) bool {
		return req.AccountID == id && req.PlanCode == "QUARTERLY" && req.Amount.Equal(decimal.NewFromInt(14000))
	})

	tests := []struct {
		name     string
		result   *domain.PaymentConfirmation
		err      error
		wantCode int
	}{
		{name: "credited", result: &domain.PaymentConfirmation{Payment: domain.Payment{PaymentID: "p1", AccountID: id, MonthsPurchased: 3}}, wantCode: http.StatusCreated},
		{name: "redelivered", result: &domain.PaymentConfirmation{Payment: domain.Payment{PaymentID: "p1", AccountID: id}, Duplicate: true}, wantCode: http.StatusOK},
		{name: "plan mismatch", err: fmt.Errorf("%w: amount", apperrors.ErrValidation), wantCode: http.StatusBadRequest},
		{name: "reference reused", err: apperrors.ErrDuplicate, wantCode: http.StatusConflict},
		{name: "unknown account", err: apperrors.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "store failure", err: apperrors.ErrPersistence, wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			if tt.err != nil {
				ts.payment.On("ConfirmPayment", mock.Anything, matchesRequest).Return(nil, tt.err).Once()
			} else {
				ts.payment.On("ConfirmPayment", mock.Anything, matchesRequest).Return(tt.result, nil).Once()
			}

			w := ts.do(http.MethodPost, "/api/v1/payments/confirm", confirmBody(id), generateTestToken(id, domain.RoleResident))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.result != nil {
				var resp dto.ConfirmPaymentResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.result.Duplicate, resp.Duplicate)
			}
			ts.payment.AssertExpectations(t)
		})
	}
}

func TestConfirmPayment_ForAnotherAccountForbidden(t *testing.T) {
	ts := newTestServices()

	w := ts.do(http.MethodPost, "/api/v1/payments/confirm", confirmBody(uuid.NewString()), generateTestToken(uuid.NewString(), domain.RoleLandlord))

	assert.Equal(t, http.StatusForbidden, w.Code)
	ts.payment.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestConfirmPayment_InvalidBody(t *testing.T) {
	ts := newTestServices()
	id := uuid.NewString()

	w := ts.do(http.MethodPost, "/api/v1/payments/confirm", `{"accountID":"not-a-uuid","planCode":"MONTHLY","currency":"NGN","gatewayReference":"x"}`, generateTestToken(id, domain.RoleSuperAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPayments(t *testing.T) {
	ts := newTestServices()
	id := uuid.NewString()
	ts.payment.On("ListPayments", mock.Anything, id, 5, 10).Return([]domain.Payment{{PaymentID: "p1", AccountID: id}}, nil).Once()

	w := ts.do(http.MethodGet, "/api/v1/accounts/"+id+"/payments?limit=5&offset=10", "", generateTestToken(id, domain.RoleResident))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListPaymentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Payments, 1)
}
