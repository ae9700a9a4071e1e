package vat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

// vatNumberPattern matches an EU VAT number: a two-letter country prefix
// followed by the member state's local format.
var vatNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Za-z+*.]{2,12}$`)

// Result is the outcome of a VIES lookup. Name and Address are only filled
// when the member state returns them for a valid number.
type Result struct {
	Valid   bool   `json:"valid"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Checker validates EU VAT numbers against the VIES service.
type Checker interface {
	Check(ctx context.Context, vatNumber string) (Result, error)
}

type client struct {
	http    *http.Client
	baseURL string
}

// NewClient builds a VIES REST client.
func NewClient(cfg config.VATConfig) Checker {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type checkRequest struct {
	CountryCode string `json:"countryCode"`
	VATNumber   string `json:"vatNumber"`
}

type checkResponse struct {
	Valid   bool   `json:"valid"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (c *client) Check(ctx context.Context, vatNumber string) (Result, error) {
	vatNumber = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(vatNumber), " ", ""))
	if !vatNumberPattern.MatchString(vatNumber) {
		return Result{}, apperrors.New(apperrors.CodeValidation, "vat number format is invalid")
	}

	payload, err := json.Marshal(checkRequest{
		CountryCode: vatNumber[:2],
		VATNumber:   vatNumber[2:],
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check-vat-number", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeDependency, err, "vat verification service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Result{}, apperrors.New(apperrors.CodeDependency,
			fmt.Sprintf("vat verification service returned status %d", resp.StatusCode))
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeDependency, err, "vat verification response malformed")
	}

	return Result{
		Valid:   decoded.Valid,
		Name:    cleanViesField(decoded.Name),
		Address: cleanViesField(decoded.Address),
	}, nil
}

// cleanViesField drops the "---" placeholder some member states return
// instead of an empty value.
func cleanViesField(value string) string {
	value = strings.TrimSpace(value)
	if value == "---" {
		return ""
	}
	return value
}
