package endpoints

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionEndpoint(t *testing.T) {
	testCases := []struct {
		description  string
		version      string
		revision     string
		bidders      []string
		expectedBody string
	}{
		{
			description:  "Empty",
			expectedBody: `{"revision":"not-set","version":"not-set","bidders":[]}`,
		},
		{
			description:  "Populated",
			version:      "1.2.3",
			revision:     "abc123",
			bidders:      []string{"buzzoola"},
			expectedBody: `{"revision":"abc123","version":"1.2.3","bidders":["buzzoola"]}`,
		},
		{
			description:  "Bidders sorted",
			version:      "1.2.3",
			bidders:      []string{"zeta", "alpha"},
			expectedBody: `{"revision":"not-set","version":"1.2.3","bidders":["alpha","zeta"]}`,
		},
	}

	for _, test := range testCases {
		handler := NewVersionEndpoint(test.version, test.revision, test.bidders)
		recorder := httptest.NewRecorder()
		handler(recorder, httptest.NewRequest("GET", "/version", nil))

		assert.JSONEq(t, test.expectedBody, recorder.Body.String(), test.description)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"), test.description)
	}
}

func TestVersionEndpointKeepsCallerSlice(t *testing.T) {
	bidders := []string{"zeta", "alpha"}
	NewVersionEndpoint("", "", bidders)

	assert.Equal(t, []string{"zeta", "alpha"}, bidders)
}
