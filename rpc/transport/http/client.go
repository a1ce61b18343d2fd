package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/chainkit/ledgerdb/rpc/common"
	"github.com/chainkit/ledgerdb/rpc/transport"
)

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Parse each server URL
	parsedURLs := make([]*url.URL, len(config.Endpoints))
	for i, server := range config.Endpoints {
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		parsedURLs[i] = parsedURL
	}

	// Create client with default transport
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     time.Duration(config.TimeoutSecond) * time.Second,
		},
	}

	// Set the client and server URLs
	t.client = client
	t.serverURLs = parsedURLs
	t.counter = 0
	t.retryCount = config.RetryCount
	if t.retryCount < 1 {
		t.retryCount = 1
	}

	// No error
	return nil
}

func (t *httpClientTransport) Send(storeID uint64, req []byte) (resp []byte, err error) {
	// Check if the transport is initialized
	if t.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	// Select the next server via round-robin
	idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.serverURLs))
	serverURL := t.serverURLs[idx]

	// Create the complete URL
	requestURL := fmt.Sprintf("%s/%v", serverURL.String(), storeID)

	// Send the request (with retries)
	var httpResponse *http.Response
	defer func() {
		if httpResponse != nil {
			if err := httpResponse.Body.Close(); err != nil {
				logger.Error("failed to close response body", "err", err)
			}
		}
	}()
	for i := 0; i < t.retryCount; i++ {
		// The body reader is consumed on each attempt, so the request
		// has to be recreated for every retry
		var httpRequest *http.Request
		httpRequest, err = http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(req))
		if err != nil {
			return nil, err
		}

		httpResponse, err = t.client.Do(httpRequest)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	// Check if the response status code is OK
	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}

	// Read the response body
	return io.ReadAll(httpResponse.Body)
}

func (t *httpClientTransport) Close() error {
	// Close the client
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	// Reset the client and server URLs
	t.client = nil
	t.serverURLs = nil

	return nil
}
