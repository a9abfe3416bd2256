package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBaidu(t *testing.T, handler http.HandlerFunc) *Baidu {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := NewBaidu("app-id", "secret", "jp")
	require.NoError(t, err)
	b.apiURL = srv.URL
	b.salt = func() string { return "12345" }
	return b
}

func TestNewBaiduRequiresCredentials(t *testing.T) {
	_, err := NewBaidu("", "secret", "")
	assert.Error(t, err)
	_, err = NewBaidu("app-id", "", "")
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	b := &Baidu{appID: "2015063000000001", secret: "12345678"}
	// Reference vector from the Baidu API documentation.
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4", b.Sign("apple", "1435660288"))
}

func TestTranslate(t *testing.T) {
	var gotQuery map[string]string
	b := newTestBaidu(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":     q.Get("q"),
			"from":  q.Get("from"),
			"to":    q.Get("to"),
			"appid": q.Get("appid"),
			"salt":  q.Get("salt"),
			"sign":  q.Get("sign"),
		}
		fmt.Fprint(w, `{"from":"zh","to":"jp","trans_result":[{"src":"三上","dst":"みかみ"}]}`)
	})

	out, err := b.Translate(context.Background(), "三上")
	require.NoError(t, err)
	assert.Equal(t, "みかみ", out)
	assert.Equal(t, "三上", gotQuery["q"])
	assert.Equal(t, "auto", gotQuery["from"])
	assert.Equal(t, "jp", gotQuery["to"])
	assert.Equal(t, b.Sign("三上", "12345"), gotQuery["sign"])
}

func TestTranslateAPIError(t *testing.T) {
	b := newTestBaidu(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error_code":"54003","error_msg":"Invalid Access Limit"}`)
	})

	_, err := b.Translate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTranslateEmptyQuery(t *testing.T) {
	b := newTestBaidu(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty query")
	})

	_, err := b.Translate(context.Background(), "")
	assert.Error(t, err)
}
