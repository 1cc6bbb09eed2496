//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/ordercore/go-orders-service/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	catalogclient "github.com/ordercore/go-orders-service/internal/clients/http/catalog"
)

func TestCatalogValidationContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	productMatcher := matchers.Map{
		"id":    matchers.Like(pacttest.KeyboardProductID),
		"name":  matchers.Like("Keyboard"),
		"price": matchers.Like(15.5),
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to validate known product ids").
		WithRequest("POST", "/products/validate", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody([]int64{pacttest.KeyboardProductID})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.ArrayMinLike(productMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request to validate an unknown product id").
		WithRequest("POST", "/products/validate", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody([]int64{pacttest.MissingProductID})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.S("Some products were not found"),
				"status":  matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		baseURL := fmt.Sprintf("http://%s:%d", host, config.Port)
		client, err := catalogclient.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		products, err := client.ValidateProducts(ctx, []int64{pacttest.KeyboardProductID})
		if err != nil {
			return fmt.Errorf("validate products: %w", err)
		}
		if len(products) == 0 || products[0].ID == 0 {
			return errors.New("expected at least one matched product")
		}

		if _, err := client.ValidateProducts(ctx, []int64{pacttest.MissingProductID}); err == nil {
			return errors.New("expected error for unknown product id")
		}

		return nil
	})
	require.NoError(t, err)
}
