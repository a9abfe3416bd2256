// Baidu translate client, used to convert search keywords to the catalog's
// language before a movie search. Translation is best-effort: callers fall
// back to the untranslated keyword on any error.
package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIURL = "https://fanyi-api.baidu.com/api/trans/vip/translate"

// errorMessages maps Baidu API error codes to readable descriptions for
// logging.
var errorMessages = map[int]string{
	52001: "request timed out",
	52002: "system error",
	52003: "unauthorized user",
	54000: "required parameter missing",
	54001: "invalid signature",
	54003: "rate limited",
	54004: "insufficient balance",
	54005: "long query too frequent",
	58000: "client IP not allowed",
	58001: "language direction unsupported",
	58002: "service closed",
	90107: "certification not passed",
}

// Baidu is a minimal client for the Baidu translate REST API. One request
// per call, no retry.
type Baidu struct {
	apiURL string
	appID  string
	secret string
	to     string // target language code, e.g. "jp"
	client *http.Client
	salt   func() string
}

// NewBaidu creates a client. The target language defaults to "jp" when
// empty.
func NewBaidu(appID, secret, to string) (*Baidu, error) {
	if appID == "" || secret == "" {
		return nil, errors.New("translate: baidu app id and secret are required")
	}
	if to == "" {
		to = "jp"
	}
	return &Baidu{
		apiURL: defaultAPIURL,
		appID:  appID,
		secret: secret,
		to:     to,
		client: &http.Client{Timeout: 10 * time.Second},
		salt: func() string {
			return strconv.Itoa(32768 + rand.Intn(32768))
		},
	}, nil
}

// Sign computes the request signature: MD5 of appid + query + salt + secret.
func (b *Baidu) Sign(query, salt string) string {
	sum := md5.Sum([]byte(b.appID + query + salt + b.secret))
	return hex.EncodeToString(sum[:])
}

type baiduResponse struct {
	ErrorCode   string `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

// Translate translates text into the configured target language and returns
// the first result segment.
func (b *Baidu) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", errors.New("translate: empty query")
	}

	salt := b.salt()
	params := url.Values{}
	params.Set("q", text)
	params.Set("from", "auto")
	params.Set("to", b.to)
	params.Set("appid", b.appID)
	params.Set("salt", salt)
	params.Set("sign", b.Sign(text, salt))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: status %d", resp.StatusCode)
	}

	var result baiduResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("translate: decoding response: %w", err)
	}

	if result.ErrorCode != "" && result.ErrorCode != "52000" {
		code, _ := strconv.Atoi(result.ErrorCode)
		if msg, ok := errorMessages[code]; ok {
			return "", fmt.Errorf("translate: api error %s: %s", result.ErrorCode, msg)
		}
		return "", fmt.Errorf("translate: api error %s: %s", result.ErrorCode, result.ErrorMsg)
	}
	if len(result.TransResult) == 0 {
		return "", errors.New("translate: empty result")
	}
	return result.TransResult[0].Dst, nil
}
