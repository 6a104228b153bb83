package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/powerwise-backend/internal/services"
)

func TestCheckout(t *testing.T) {
	pay := &fakePayments{checkout: &services.CheckoutResult{URL: "https://pay.example/p?reference=pw_1", Reference: "pw_1", Plan: "premium"}}
	r := newRouter(Services{Payments: pay})

	w := do(r, http.MethodPost, "/payments/checkout", map[string]string{"recommendationId": reportID, "plan": "premium"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}
	var res services.CheckoutResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Reference != "pw_1" || res.URL == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheckout_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   any
		err    error
		status int
		code   string
	}{
		{"missing plan", map[string]string{"recommendationId": reportID}, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad id", map[string]string{"recommendationId": "x", "plan": "basic"}, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown plan", map[string]string{"recommendationId": reportID, "plan": "gold"}, services.ErrInvalidPlan, http.StatusBadRequest, ErrCodeInvalidPlan},
		{"missing rec", map[string]string{"recommendationId": reportID, "plan": "basic"}, services.ErrRecommendationNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"db", map[string]string{"recommendationId": reportID, "plan": "basic"}, errBoom, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(Services{Payments: &fakePayments{err: tc.err}})
			w := do(r, http.MethodPost, "/payments/checkout", tc.body, nil)
			if w.Code != tc.status || decodeError(t, w).Code != tc.code {
				t.Fatalf("want %d %s, got %d %s", tc.status, tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestPaymentWebhook_PassesRawBodyAndSignature(t *testing.T) {
	pay := &fakePayments{}
	r := newRouter(Services{Payments: pay})
	raw := `{"event":"charge.success","data":{"reference":"pw_1"}}`

	w := do(r, http.MethodPost, "/webhooks/payment", raw, map[string]string{HeaderPaymentSignature: "abc123"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if string(pay.gotBody) != raw || pay.gotSig != "abc123" {
		t.Fatalf("body/signature not forwarded verbatim: %q %q", pay.gotBody, pay.gotSig)
	}
}

func TestPaymentWebhook_Errors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrInvalidSignature, http.StatusUnauthorized, ErrCodeInvalidSignature},
		{services.ErrWebhookPayload, http.StatusBadRequest, ErrCodeBadRequest},
		{errBoom, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		r := newRouter(Services{Payments: &fakePayments{err: tc.err}})
		w := do(r, http.MethodPost, "/webhooks/payment", "{}", nil)
		if w.Code != tc.status || decodeError(t, w).Code != tc.code {
			t.Fatalf("%v: want %d %s, got %d", tc.err, tc.status, tc.code, w.Code)
		}
	}
}

func TestPaymentReturn_Redirects(t *testing.T) {
	pay := &fakePayments{returnURL: "http://localhost:5173/recommendations/" + reportID}
	r := newRouter(Services{Payments: pay})

	w := do(r, http.MethodGet, "/payments/return?reference=pw_1", nil, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != pay.returnURL || pay.gotRef != "pw_1" {
		t.Fatalf("code=%d location=%q ref=%q", w.Code, w.Header().Get("Location"), pay.gotRef)
	}

	do(r, http.MethodGet, "/payments/return?trxref=pw_2", nil, nil)
	if pay.gotRef != "pw_2" {
		t.Fatalf("trxref fallback not used: %q", pay.gotRef)
	}
}
