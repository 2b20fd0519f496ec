package bankverify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/metrics"
)

const (
	// DefaultEndpoint is the third-party IFSC lookup service.
	DefaultEndpoint = "https://api.bulkpe.in/api/validateIFSCStatic"

	// MsgUnverifiable is returned when the lookup service declines the code.
	MsgUnverifiable = "The provided IFSC code is not valid or could not be verified by the bank API."

	maxErrorBody    = 4 << 10
	maxResponseBody = 1 << 20
)

// BankMetadata is the branch information returned for a verified IFSC code.
type BankMetadata struct {
	BankName       string `json:"bankName"`
	BankBranchName string `json:"bankBranchName"`
	Address        string `json:"address"`
	CityAndPincode string `json:"cityAndPincode"`
	CountryCode    string `json:"countryCode"`
	NetworkType    string `json:"networkType"`
	RoutingNo      string `json:"routingNo"`
	StateCode      string `json:"stateCode"`
}

// Verifier confirms an IFSC code with the bank network.
type Verifier interface {
	Verify(ctx context.Context, ifsc string) (BankMetadata, error)
}

type verifyRequest struct {
	IFSC string `json:"ifsc"`
}

type verifyResponse struct {
	Data *BankMetadata `json:"data"`
}

// HTTPClient calls the lookup service once per Verify. A declined code is a
// validation failure; anything that prevents reading an answer is an
// external failure.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewHTTPClient builds a verifier on top of a shared http.Client. An empty
// endpoint selects DefaultEndpoint.
func NewHTTPClient(httpClient *http.Client, endpoint string, logger *slog.Logger, rec metrics.Recorder) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &HTTPClient{httpClient: httpClient, endpoint: endpoint, logger: logger, metrics: rec}
}

// Verify posts {"ifsc": code} and decodes the bank metadata.
func (c *HTTPClient) Verify(ctx context.Context, ifsc string) (BankMetadata, error) {
	start := time.Now()

	payload, err := json.Marshal(verifyRequest{IFSC: ifsc})
	if err != nil {
		return BankMetadata{}, apperror.Internal("encode ifsc request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return BankMetadata{}, apperror.Internal("build ifsc request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Info("verifying ifsc with bank api", slog.String("ifsc", ifsc))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordVerification(metrics.OutcomeError, time.Since(start))
		return BankMetadata{}, apperror.External("call ifsc api", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("ifsc api returned non-success status",
			slog.String("ifsc", ifsc),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		c.metrics.RecordVerification(metrics.OutcomeRejected, time.Since(start))
		return BankMetadata{}, apperror.Validationf(MsgUnverifiable)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&decoded); err != nil {
		c.metrics.RecordVerification(metrics.OutcomeError, time.Since(start))
		return BankMetadata{}, apperror.External("decode ifsc response", err)
	}
	if decoded.Data == nil {
		c.metrics.RecordVerification(metrics.OutcomeError, time.Since(start))
		return BankMetadata{}, apperror.External("decode ifsc response", fmt.Errorf("response has no data object"))
	}

	c.metrics.RecordVerification(metrics.OutcomeSuccess, time.Since(start))
	c.logger.Info("fetched bank details",
		slog.String("ifsc", ifsc),
		slog.String("bank_name", decoded.Data.BankName),
	)
	return *decoded.Data, nil
}
