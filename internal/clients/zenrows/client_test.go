package zenrows

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func htmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func Test_Client_GetPage_ShouldPassKeyAndTargetURL(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.Query().Get("apikey") == "secret" &&
			req.URL.Query().Get("url") == "https://www.avito.ru/moskva/vakansii"
	})).Return(htmlResponse(200, "<html></html>"), nil)

	client := NewClient("secret")
	client.SetHTTPClient(mockClient)

	page, err := client.GetPage(context.Background(), "https://www.avito.ru/moskva/vakansii")

	assert.NoError(t, err)
	assert.Equal(t, "<html></html>", page)
	mockClient.AssertExpectations(t)
}

func Test_Client_GetPage_WhenProxyRejects_ShouldReturnUpstreamError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(htmlResponse(422, "blocked"), nil)

	client := NewClient("secret")
	client.SetHTTPClient(mockClient)

	_, err := client.GetPage(context.Background(), "https://www.avito.ru/moskva/vakansii")

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, 422, upstream.StatusCode)
}

func Test_Client_GetPage_WhenTransportFails_ShouldReturnUpstreamError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection reset"))

	client := NewClient("secret")
	client.SetHTTPClient(mockClient)

	_, err := client.GetPage(context.Background(), "https://www.avito.ru/moskva/vakansii")

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.ErrorContains(t, err, "connection reset")
}
