package adapterstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/buzzoola/hbrtb/adapters"
	"github.com/buzzoola/hbrtb/hb"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// RunJSONBidderTest is a helper method intended to unit test HttpBidders' adapters.
// It requires that:
//
//   - Bidders communicate with exactly one exchange endpoint per auction.
//   - Bidders translate an auction into an OpenRTB request and its response back into outcomes.
//
// More assumptions may be added in the future, as needed.
//
// For more info on the JSON format, see the testSpec struct below.
//
// rootDir should be the name of the directory which contains the JSON fixtures.
// Bidders should keep test files in "exemplary" and "supplemental" subdirectories.
// Exemplary files document the common auctions of an exchange and must not produce errors.
// Supplemental files cover edge cases: rejections, malformed responses, etc.
func RunJSONBidderTest(t *testing.T, rootDir string, bidder adapters.HttpBidder) {
	runTests(t, filepath.Join(rootDir, "exemplary"), bidder, true)
	runTests(t, filepath.Join(rootDir, "supplemental"), bidder, false)
}

func runTests(t *testing.T, directory string, bidder adapters.HttpBidder, isExemplary bool) {
	t.Helper()

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsNotExist(err) && !isExemplary {
			return
		}
		t.Fatalf("Failed to read folder %s: %v", directory, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		filename := filepath.Join(directory, entry.Name())
		spec, err := loadFile(filename)
		if err != nil {
			t.Fatalf("Failed to load contents of file %s: %v", filename, err)
		}
		if isExemplary && (len(spec.MakeRequestErrors) > 0 || len(spec.MakeBidsErrors) > 0) {
			t.Fatalf("Exemplary spec %s must not expect errors.", filename)
		}

		t.Run(entry.Name(), func(t *testing.T) {
			runSpec(t, filename, spec, bidder)
		})
	}
}

// loadFile reads and parses a file as a test case. If something goes wrong, it returns an error.
func loadFile(filename string) (*testSpec, error) {
	specData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Failed to read file %s: %v", filename, err)
	}

	var spec testSpec
	if err := json.Unmarshal(specData, &spec); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal JSON from file: %v", err)
	}

	return &spec, nil
}

// runSpec runs a single test case. It will make sure:
//
//   - That the request built from the auction matches the expected request, or that none is built
//   - That the rejections and outcomes match the expected ones, in order
//   - That the expected errors are produced
func runSpec(t *testing.T, filename string, spec *testSpec, bidder adapters.HttpBidder) {
	reqData, rejections, errs := bidder.MakeRequests(&spec.Auction, &spec.Environment)
	diffErrorLists(t, fmt.Sprintf("%s: MakeRequests", filename), errs, spec.MakeRequestErrors)
	diffOutcomes(t, fmt.Sprintf("%s: rejections", filename), rejections, spec.ExpectedRejections)

	if spec.ExpectedRequest == nil {
		if reqData != nil {
			t.Fatalf("%s: expected no request, got one to %s", filename, reqData.Uri)
		}
		return
	}
	if reqData == nil {
		t.Fatalf("%s: expected a request, got none", filename)
	}
	assertRequest(t, filename, reqData, spec.ExpectedRequest)

	if spec.MockResponse == nil {
		return
	}
	outcomes, errs := bidder.MakeBids(reqData.BidRequest, &adapters.ResponseData{
		StatusCode: spec.MockResponse.Status,
		Body:       spec.MockResponse.Body,
		Headers:    http.Header{},
	})
	diffErrorLists(t, fmt.Sprintf("%s: MakeBids", filename), errs, spec.MakeBidsErrors)
	diffOutcomes(t, fmt.Sprintf("%s: outcomes", filename), outcomes, spec.ExpectedOutcomes)
}

type testSpec struct {
	Auction            hb.AuctionContext       `json:"auction"`
	Environment        hb.Environment          `json:"environment"`
	ExpectedRequest    *expectedRequest        `json:"expectedRequest,omitempty"`
	MockResponse       *mockResponse           `json:"mockResponse,omitempty"`
	ExpectedRejections json.RawMessage         `json:"expectedRejections,omitempty"`
	ExpectedOutcomes   json.RawMessage         `json:"expectedOutcomes,omitempty"`
	MakeRequestErrors  []testSpecExpectedError `json:"expectedMakeRequestsErrors,omitempty"`
	MakeBidsErrors     []testSpecExpectedError `json:"expectedMakeBidsErrors,omitempty"`
}

type testSpecExpectedError struct {
	Value      string `json:"value"`
	Comparison string `json:"comparison"`
}

type expectedRequest struct {
	Uri     string            `json:"uri"`
	Body    json.RawMessage   `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type mockResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func assertRequest(t *testing.T, filename string, actual *adapters.RequestData, expected *expectedRequest) {
	t.Helper()

	if actual.Uri != expected.Uri {
		t.Errorf("%s: bad request uri. Expected %s, got %s", filename, expected.Uri, actual.Uri)
	}
	for name, value := range expected.Headers {
		if got := actual.Headers.Get(name); got != value {
			t.Errorf("%s: bad request header %s. Expected %q, got %q", filename, name, value, got)
		}
	}

	actualBody, err := expandNativeRequests(actual.Body)
	if err != nil {
		t.Fatalf("%s: could not read request body: %v", filename, err)
	}
	diffJson(t, fmt.Sprintf("%s: request body", filename), actualBody, expected.Body)
}

// expandNativeRequests replaces every imp.native.request string by the object it encodes,
// so fixtures can spell the native request out as JSON.
func expandNativeRequests(body []byte) ([]byte, error) {
	var request map[string]any
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, err
	}

	imps, _ := request["imp"].([]any)
	for _, imp := range imps {
		native, ok := imp.(map[string]any)["native"].(map[string]any)
		if !ok {
			continue
		}
		payload, ok := native["request"].(string)
		if !ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			return nil, fmt.Errorf("imp native request is not JSON: %v", err)
		}
		native["request"] = decoded
	}
	return json.Marshal(request)
}

func diffOutcomes(t *testing.T, description string, actual []hb.Outcome, expected json.RawMessage) {
	t.Helper()

	if len(expected) == 0 {
		expected = json.RawMessage(`[]`)
	}
	if actual == nil {
		actual = []hb.Outcome{}
	}
	// the differ compares objects only
	actualJSON, err := json.Marshal(map[string]any{"outcomes": actual})
	if err != nil {
		t.Fatalf("%s: failed to marshal outcomes: %v", description, err)
	}
	expectedJSON, err := json.Marshal(map[string]json.RawMessage{"outcomes": expected})
	if err != nil {
		t.Fatalf("%s: expected outcomes are not JSON: %v", description, err)
	}
	diffJson(t, description, actualJSON, expectedJSON)
}

func diffErrorLists(t *testing.T, description string, actual []error, expected []testSpecExpectedError) {
	t.Helper()

	if len(expected) != len(actual) {
		t.Fatalf("%s had wrong error count. Expected %d, got %d (%v)", description, len(expected), len(actual), actual)
	}
	for i := 0; i < len(actual); i++ {
		switch expected[i].Comparison {
		case "literal":
			if expected[i].Value != actual[i].Error() {
				t.Errorf(`%s error[%d] had wrong message. Expected "%s", got "%s"`, description, i, expected[i].Value, actual[i].Error())
			}
		case "regex":
			matched, err := regexp.MatchString(expected[i].Value, actual[i].Error())
			if err != nil {
				t.Fatalf("%s regex match failed: %v", description, err)
			}
			if !matched {
				t.Errorf(`%s error[%d] had wrong message. Expected match with regex "%s", got "%s"`, description, i, expected[i].Value, actual[i].Error())
			}
		case "contains":
			if !strings.Contains(actual[i].Error(), expected[i].Value) {
				t.Errorf(`%s error[%d] had wrong message. Expected it to contain "%s", got "%s"`, description, i, expected[i].Value, actual[i].Error())
			}
		default:
			t.Fatalf(`invalid comparison type "%s"`, expected[i].Comparison)
		}
	}
}

// diffJson compares two JSON byte arrays for structural equality. It will produce an error if either
// byte array is not actually JSON.
func diffJson(t *testing.T, description string, actual []byte, expected []byte) {
	t.Helper()

	if len(actual) == 0 && len(expected) == 0 {
		return
	}
	if len(actual) == 0 || len(expected) == 0 {
		t.Fatalf("%s json diff failed. Expected %d bytes in body, but got %d.", description, len(expected), len(actual))
	}

	diff, err := gojsondiff.New().Compare(actual, expected)
	if err != nil {
		t.Fatalf("%s json diff failed. %v", description, err)
	}

	if diff.Modified() {
		var left any
		if err := json.Unmarshal(actual, &left); err != nil {
			t.Fatalf("%s json did not match, but unmarshalling failed. %v", description, err)
		}
		printer := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
		})
		output, err := printer.Format(diff)
		if err != nil {
			t.Errorf("%s did not match, but diff formatting failed. %v", description, err)
		} else {
			t.Errorf("%s json did not match expected.\n\n%s", description, output)
		}
	}
}
