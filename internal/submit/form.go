package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
)

// FormSubmitter posts orders as URL-encoded form fields to a spreadsheet-backed
// form endpoint (a Google Form formResponse URL or the sheets web app). Every
// order field is sent as a string; line items travel as one JSON-encoded field.
type FormSubmitter struct {
	endpoint string
	client   *http.Client
}

func NewFormSubmitter(endpoint string, client *http.Client) *FormSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FormSubmitter{endpoint: endpoint, client: client}
}

func (s *FormSubmitter) Submit(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("encode order lines: %w", err)
	}

	form := url.Values{}
	form.Set("orderId", o.ID)
	form.Set("orderDate", o.CreatedAt.Format(time.RFC3339))
	form.Set("customerName", o.Customer.Name)
	form.Set("email", o.Customer.Email)
	form.Set("phone", o.Customer.Phone)
	form.Set("address", o.Customer.Address)
	form.Set("city", o.Customer.City)
	form.Set("paymentMethod", o.PaymentMethod)
	form.Set("deliveryOption", o.DeliveryOption)
	form.Set("notes", o.Notes)
	form.Set("items", string(items))
	form.Set("subtotal", formatAmount(o.Subtotal))
	form.Set("deliveryFee", formatAmount(o.DeliveryFee))
	form.Set("total", formatAmount(o.Total))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit order %s: %w", o.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submit order %s: unexpected status %d", o.ID, resp.StatusCode)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
