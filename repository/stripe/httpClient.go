package striperepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Karansiddiqui/ReadSpace/util/httpx"
)

const sessionsURL = "https://api.stripe.com/v1/checkout/sessions"

type httpRepo struct {
	secretKey string
	client    *http.Client
}

func NewHTTP(secretKey string) Repo {
	return &httpRepo{secretKey: secretKey, client: httpx.Client()}
}

func (r *httpRepo) CreateCheckoutSession(ctx context.Context, req CreateSessionReq) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	for i, it := range req.Items {
		p := fmt.Sprintf("line_items[%d]", i)
		form.Set(p+"[price_data][currency]", "inr")
		form.Set(p+"[price_data][product_data][name]", it.Name)
		if it.Description != "" {
			form.Set(p+"[price_data][product_data][description]", it.Description)
		}
		form.Set(p+"[price_data][unit_amount]", strconv.FormatInt(it.UnitAmount, 10))
		form.Set(p+"[quantity]", strconv.FormatInt(it.Quantity, 10))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, sessionsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe create session: %s: %s", resp.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe create session: %s", resp.Status)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe: empty session id")
	}
	return &Session{ID: out.ID, URL: out.URL}, nil
}
